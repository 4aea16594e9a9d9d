// Package di provides dependency injection configuration for the StatLine server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/akanel15/StatLine-sub001/internal/config"
	"github.com/akanel15/StatLine-sub001/internal/di/providers"
	"github.com/akanel15/StatLine-sub001/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideGameService)
	do.Provide(injector, providers.ProvideRosterService)
	do.Provide(injector, providers.ProvideCardService)
	do.Provide(injector, providers.ProvideExportService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideMigrationService)

	// Workers
	do.Provide(injector, providers.ProvideInbox)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server and the
// inbox watcher.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.InboxHandle](injector); err != nil {
		return err
	}
	return nil
}
