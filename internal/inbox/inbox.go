// Package inbox imports stat files dropped into a watched directory.
//
// Files are imported with default decisions, then moved to processed/ or,
// on failure, to failed/ next to a .errors.txt report.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	backupimport "github.com/akanel15/StatLine-sub001/internal/backup/import"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
)

// Directory names created under the inbox.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// Importer imports a raw stat file with default decisions.
type Importer interface {
	AutoImport(ctx context.Context, raw []byte) (*backupimport.Result, error)
}

// Outcome describes what happened to one inbox file.
type Outcome struct {
	File    string
	MovedTo string
	Result  *backupimport.Result
	Err     error
}

// Processor watches an inbox directory and imports what lands in it.
type Processor struct {
	dir      string
	importer Importer
	opts     Options
	logger   *slog.Logger
}

// New creates a processor for dir.
func New(dir string, importer Importer, opts Options, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	opts.setDefaults()
	return &Processor{
		dir:      filepath.Clean(dir),
		importer: importer,
		opts:     opts,
		logger:   logger.With("component", "inbox"),
	}
}

// Run imports files already waiting in the inbox, then every file that
// settles afterwards. It blocks until ctx is done.
func (p *Processor) Run(ctx context.Context) error {
	if err := p.ensureDirs(); err != nil {
		return err
	}

	w, err := newWatcher(p.dir, p.opts, p.logger)
	if err != nil {
		return err
	}
	w.start(ctx)
	defer w.stop()

	p.logger.Info("inbox watching", "path", p.dir)
	p.ScanExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-w.ready:
			p.Process(ctx, path)
		}
	}
}

// ScanExisting processes every accepted file currently in the inbox,
// in name order.
func (p *Processor) ScanExisting(ctx context.Context) []Outcome {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		p.logger.Error("failed to read inbox", "path", p.dir, "error", err)
		return nil
	}

	var out []Outcome
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(p.dir, e.Name())
		if e.IsDir() || !p.opts.accepts(path) {
			continue
		}
		if o := p.Process(ctx, path); o != nil {
			out = append(out, *o)
		}
	}
	return out
}

// Process imports one file and moves it out of the inbox. It returns nil
// when the file is already gone.
func (p *Processor) Process(ctx context.Context, path string) *Outcome {
	if err := p.ensureDirs(); err != nil {
		p.logger.Error("failed to prepare inbox", "error", err)
		return nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	outcome := &Outcome{File: filepath.Base(path)}
	switch {
	case err != nil:
		outcome.Err = fmt.Errorf("stat file: %w", err)
	case info.Size() > p.opts.MaxFileSize:
		outcome.Err = domainerrors.Validationf("file is %d bytes, limit is %d", info.Size(), p.opts.MaxFileSize)
	default:
		outcome.Result, outcome.Err = p.importFile(ctx, path)
	}

	if outcome.Err != nil {
		outcome.MovedTo, err = p.fail(path, outcome.Err)
		p.logger.Warn("inbox import failed", "file", outcome.File, "error", outcome.Err)
	} else {
		outcome.MovedTo, err = moveInto(path, filepath.Join(p.dir, ProcessedDir))
		p.logger.Info("inbox import complete",
			"file", outcome.File,
			"import_id", outcome.Result.ImportID,
			"games_imported", outcome.Result.GamesImported,
			"games_skipped", outcome.Result.GamesSkipped,
		)
	}
	if err != nil {
		p.logger.Error("failed to move inbox file", "file", outcome.File, "error", err)
	}
	return outcome
}

func (p *Processor) importFile(ctx context.Context, path string) (*backupimport.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.importer.AutoImport(ctx, raw)
}

// fail moves path into failed/ and writes the error report beside it.
func (p *Processor) fail(path string, cause error) (string, error) {
	dest, err := moveInto(path, filepath.Join(p.dir, FailedDir))
	if err != nil {
		return "", err
	}
	report := dest + ".errors.txt"
	if err := os.WriteFile(report, []byte(errorReport(cause)), 0o644); err != nil {
		return dest, fmt.Errorf("write error report: %w", err)
	}
	return dest, nil
}

func (p *Processor) ensureDirs() error {
	for _, dir := range []string{p.dir, filepath.Join(p.dir, ProcessedDir), filepath.Join(p.dir, FailedDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// errorReport renders an import error, one detail per line.
func errorReport(err error) string {
	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteByte('\n')

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		if details, ok := domainErr.Details.([]string); ok {
			for _, d := range details {
				b.WriteString("- ")
				b.WriteString(d)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// moveInto renames path into dir, suffixing the name on collision.
func moveInto(path, dir string) (string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dest := filepath.Join(dir, base)
	for i := 1; exists(dest); i++ {
		dest = filepath.Join(dir, stem+"-"+strconv.Itoa(i)+ext)
	}
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move %s: %w", base, err)
	}
	return dest, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
