package api

import (
	"github.com/akanel15/StatLine-sub001/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Games     *service.GameService
	Roster    *service.RosterService
	Cards     *service.CardService
	Export    *service.ExportService
	Import    *service.ImportService
	Migration *service.MigrationService
}
