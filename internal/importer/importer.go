package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/crank/internal/ingest/wkt"
	"github.com/claude/crank/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	WorkoutsInserted int
	WorkoutsReplaced int
	ExercisesParsed  int
	SetsParsed       int
	RawSetsPending   int
}

// Importer reads .wkt logbooks from a directory into the store.
type Importer struct {
	store  *storage.Store
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(store *storage.Store, log *slog.Logger, dryRun bool) *Importer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// Import processes every .wkt file in dir. Files already imported with the
// same content are skipped. A file that cannot be read is counted and logged
// without stopping the batch. The store is saved once at the end.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.wkt"))
	if err != nil {
		return &imp.stats, err
	}
	if len(files) == 0 {
		imp.log.Warn("no .wkt files found", "dir", dir)
		return &imp.stats, nil
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
		}
	}

	if imp.dryRun || imp.stats.FilesProcessed == 0 {
		return &imp.stats, nil
	}
	if err := imp.store.Save(); err != nil {
		return &imp.stats, fmt.Errorf("saving store: %w", err)
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	hash, err := storage.HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}
	key := filepath.Base(path)
	if imp.store != nil && imp.store.SourceImported(key, hash) {
		imp.log.Debug("unchanged, skipping", "file", path)
		imp.stats.FilesSkipped++
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	store := imp.store
	if imp.dryRun {
		store = nil
	}
	res, err := wkt.NewProvider(store, imp.log).Ingest(ctx, f)
	if err != nil {
		return err
	}

	imp.stats.FilesProcessed++
	imp.stats.WorkoutsInserted += res.WorkoutsInserted
	imp.stats.WorkoutsReplaced += res.WorkoutsReplaced
	imp.stats.ExercisesParsed += res.ExercisesParsed
	imp.stats.SetsParsed += res.SetsParsed
	imp.stats.RawSetsPending += res.RawSetsPending
	if imp.dryRun {
		imp.stats.WorkoutsInserted += res.WorkoutsReceived
		return nil
	}
	imp.store.MarkSource(key, hash)
	imp.log.Info("imported", "file", path, "workouts", res.WorkoutsReceived, "pending", res.RawSetsPending)
	return nil
}
