package providers

import (
	"github.com/samber/do/v2"

	"github.com/akanel15/StatLine-sub001/internal/config"
	"github.com/akanel15/StatLine-sub001/internal/logger"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdowner.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the badger-backed store under the data path.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.Data.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Data.Path)
	return &StoreHandle{Store: db}, nil
}
