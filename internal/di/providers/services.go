package providers

import (
	"github.com/samber/do/v2"

	"github.com/akanel15/StatLine-sub001/internal/logger"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

// ProvideGameService provides the live game service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewGameService(service.NewGameStore(storeHandle.Store), log.Logger), nil
}

// ProvideRosterService provides the team, player and set service.
func ProvideRosterService(i do.Injector) (*service.RosterService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewRosterService(storeHandle.Store, log.Logger), nil
}

// ProvideCardService provides the stat card service.
func ProvideCardService(i do.Injector) (*service.CardService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return service.NewCardService(storeHandle.Store), nil
}

// ProvideExportService provides the export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewExportService(storeHandle.Store, log.Logger), nil
}

// ProvideImportService provides the import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewImportService(storeHandle.Store, log.Logger), nil
}

// ProvideMigrationService provides the set-stats migration service.
func ProvideMigrationService(i do.Injector) (*service.MigrationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	games := do.MustInvoke[*service.GameService](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewMigrationService(storeHandle.Store, games, log.Logger), nil
}
