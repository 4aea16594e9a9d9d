package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/akanel15/StatLine-sub001/internal/config"
	"github.com/akanel15/StatLine-sub001/internal/inbox"
	"github.com/akanel15/StatLine-sub001/internal/logger"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

// InboxHandle wraps the inbox processor with its lifecycle.
type InboxHandle struct {
	Processor *inbox.Processor
	cancel    context.CancelFunc
	done      chan struct{}
}

// Shutdown implements do.Shutdowner.
func (h *InboxHandle) Shutdown() error {
	if h.cancel == nil {
		return nil
	}
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(shutdownTimeout):
	}
	return nil
}

// ProvideInbox starts the import inbox watcher when enabled.
func ProvideInbox(i do.Injector) (*InboxHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Inbox.Enabled {
		log.Info("Import inbox disabled")
		return &InboxHandle{}, nil
	}

	importer := do.MustInvoke[*service.ImportService](i)
	processor := inbox.New(cfg.Inbox.Path, importer, inbox.Options{}, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := processor.Run(ctx); err != nil {
			log.WithError(err).Error("Import inbox stopped", "path", cfg.Inbox.Path)
		}
	}()

	return &InboxHandle{Processor: processor, cancel: cancel, done: done}, nil
}
