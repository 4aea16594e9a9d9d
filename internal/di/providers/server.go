package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/akanel15/StatLine-sub001/internal/api"
	"github.com/akanel15/StatLine-sub001/internal/config"
	"github.com/akanel15/StatLine-sub001/internal/logger"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

// Version is reported in the OpenAPI document.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdowner.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdowner.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	return errors.Join(err, h.api.Shutdown())
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Games:     do.MustInvoke[*service.GameService](i),
		Roster:    do.MustInvoke[*service.RosterService](i),
		Cards:     do.MustInvoke[*service.CardService](i),
		Export:    do.MustInvoke[*service.ExportService](i),
		Import:    do.MustInvoke[*service.ImportService](i),
		Migration: do.MustInvoke[*service.MigrationService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ImportRateLimit: cfg.Import.RateLimit,
		Version:         Version,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
