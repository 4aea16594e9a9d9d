package api

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	backupimport "github.com/akanel15/StatLine-sub001/internal/backup/import"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

func (s *Server) registerBackupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createExport",
		Method:      http.MethodPost,
		Path:        "/api/v1/exports",
		Summary:     "Export games",
		Description: "Builds a portable stat file for a team's games",
		Tags:        []string{"Backup"},
	}, s.handleCreateExport)

	importOps := huma.Middlewares{s.importRateLimit}

	huma.Register(s.api, huma.Operation{
		OperationID: "previewImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/imports/preview",
		Summary:     "Preview import",
		Description: "Validates a stat file and reports duplicate games and player matches without writing",
		Tags:        []string{"Backup"},
		Middlewares: importOps,
	}, s.handlePreviewImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "executeImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/imports",
		Summary:     "Import stat file",
		Description: "Imports a stat file applying the caller's team, player and duplicate decisions",
		Tags:        []string{"Backup"},
		Middlewares: importOps,
	}, s.handleExecuteImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "autoImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/imports/auto",
		Summary:     "Import stat file with default decisions",
		Description: "Links exact player matches, creates the rest and skips duplicate games",
		Tags:        []string{"Backup"},
		Middlewares: importOps,
	}, s.handleAutoImport)
}

// ExportInput wraps the export request.
type ExportInput struct {
	Body struct {
		TeamID       string   `json:"teamId" doc:"Team whose games are exported"`
		GameIDs      []string `json:"gameIds,omitempty" doc:"Restrict to these games"`
		FinishedOnly bool     `json:"finishedOnly,omitempty" doc:"Skip games still in progress"`
	}
}

// ExportOutput is the stat file as a download.
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Games              int    `header:"X-Export-Games"`
	Body               []byte
}

// RawImportInput carries a stat file as the raw request body.
type RawImportInput struct {
	RawBody []byte `contentType:"application/json"`
}

// PreviewOutput wraps an import preview.
type PreviewOutput struct {
	Body *backupimport.Preview
}

// ExecuteImportInput wraps the import request.
type ExecuteImportInput struct {
	Body struct {
		File      any                    `json:"file" doc:"Stat file contents"`
		Decisions backupimport.Decisions `json:"decisions"`
	}
}

// ImportOutput wraps an import result.
type ImportOutput struct {
	Body *backupimport.Result
}

func (s *Server) handleCreateExport(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	result, err := s.services.Export.Export(ctx, service.ExportRequest{
		TeamID:       input.Body.TeamID,
		GameIDs:      input.Body.GameIDs,
		FinishedOnly: input.Body.FinishedOnly,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &ExportOutput{
		ContentType:        "application/json",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", exportFilename(result.Package.ExportDate)),
		Games:              result.Summary.Games,
		Body:               result.Data,
	}, nil
}

func (s *Server) handlePreviewImport(ctx context.Context, input *RawImportInput) (*PreviewOutput, error) {
	preview, err := s.services.Import.Preview(ctx, input.RawBody)
	if err != nil {
		return nil, apiError(err)
	}
	return &PreviewOutput{Body: preview}, nil
}

func (s *Server) handleExecuteImport(ctx context.Context, input *ExecuteImportInput) (*ImportOutput, error) {
	if input.Body.File == nil {
		return nil, apiError(domainerrors.Validation("file is required"))
	}
	raw, err := json.Marshal(input.Body.File)
	if err != nil {
		return nil, apiError(domainerrors.Validation("file is not valid JSON"))
	}

	result, err := s.services.Import.Execute(ctx, raw, input.Body.Decisions)
	if err != nil {
		return nil, apiError(err)
	}
	return &ImportOutput{Body: result}, nil
}

func (s *Server) handleAutoImport(ctx context.Context, input *RawImportInput) (*ImportOutput, error) {
	result, err := s.services.Import.AutoImport(ctx, input.RawBody)
	if err != nil {
		return nil, apiError(err)
	}
	return &ImportOutput{Body: result}, nil
}

// exportFilename names a download after the export date.
func exportFilename(exportDate string) string {
	day, _, _ := strings.Cut(exportDate, "T")
	if day == "" {
		return "statline-export.json"
	}
	return "statline-export-" + day + ".json"
}
