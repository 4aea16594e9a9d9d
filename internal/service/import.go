package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	backupimport "github.com/akanel15/StatLine-sub001/internal/backup/import"
	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/id"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// ImportService runs imports of export files against the local store.
type ImportService struct {
	store  backupimport.Store
	engine *backupimport.Engine
	logger *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(s *store.Store, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	is := s.ImportStore()
	return &ImportService{
		store:  is,
		engine: backupimport.New(is, id.Generate, logger),
		logger: logger,
	}
}

// Preview validates a file and reports duplicates and player matches
// without writing anything. An invalid file is not an error: the result
// lists every problem.
func (s *ImportService) Preview(ctx context.Context, raw []byte) (*backupimport.Preview, error) {
	if err := checkVersion(raw); err != nil {
		return nil, err
	}
	preview, err := backupimport.Analyze(ctx, s.store, raw)
	if err != nil {
		return nil, fmt.Errorf("analyze import: %w", err)
	}
	return preview, nil
}

// Execute imports a file with caller-approved decisions.
func (s *ImportService) Execute(ctx context.Context, raw []byte, decisions backupimport.Decisions) (*backupimport.Result, error) {
	pkg, err := s.decode(raw)
	if err != nil {
		return nil, err
	}
	return s.engine.Execute(ctx, pkg, decisions)
}

// AutoImport imports a file with default decisions: matched players are
// linked, the rest created, duplicate games skipped.
func (s *ImportService) AutoImport(ctx context.Context, raw []byte) (*backupimport.Result, error) {
	preview, err := s.Preview(ctx, raw)
	if err != nil {
		return nil, err
	}
	if !preview.Validation.Valid {
		return nil, invalidFile(preview.Validation.Errors)
	}

	for _, m := range preview.Matches {
		if m.Reason == backupimport.MatchAmbiguousFirst {
			s.logger.Warn("ambiguous player match, using first candidate",
				"original_id", m.Incoming.OriginalID,
				"name", m.Incoming.Name,
				"existing_id", m.Existing.ID,
				"candidates", m.Candidates,
			)
		}
	}

	decisions := backupimport.DefaultDecisions(preview.Matches, preview.Duplicates)
	return s.engine.Execute(ctx, preview.Validation.Package, decisions)
}

func (s *ImportService) decode(raw []byte) (*statfile.Package, error) {
	if err := checkVersion(raw); err != nil {
		return nil, err
	}
	v := backupimport.ValidateBytes(raw)
	if !v.Valid {
		return nil, invalidFile(v.Errors)
	}
	return v.Package, nil
}

// checkVersion reports a numeric version other than the supported one as
// UnsupportedVersion. Anything else malformed is left to validation.
func checkVersion(raw []byte) error {
	var head struct {
		Version *float64 `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.Version == nil {
		return nil
	}
	if *head.Version != statfile.FormatVersion {
		return domainerrors.UnsupportedVersion(fmt.Sprintf("file version %v is not supported", *head.Version))
	}
	return nil
}

func invalidFile(problems []string) error {
	return domainerrors.ValidationWithDetails("import file is invalid", problems)
}
