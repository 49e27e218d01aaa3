package ingestion

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rpattn/sparkify-etl/internal/discovery"
	"github.com/rpattn/sparkify-etl/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope runs fn inside one transaction, committing when it returns nil.
type Scope interface {
	Within(ctx context.Context, fn func(repository.Repositories) error) error
}

// Job names a dataset, where it lives and how each of its files is loaded.
type Job struct {
	Name    string
	Root    string
	Suffix  string
	Extract Extractor
}

// RunSummary reports what a Process call loaded.
type RunSummary struct {
	RunID          uuid.UUID
	Job            string
	Root           string
	FilesFound     int
	FilesProcessed int
	Rows           Counts
	Elapsed        time.Duration
}

// Loader drives extractors over discovered files, one transaction per file.
type Loader struct {
	scope  Scope
	out    io.Writer
	logger *zap.Logger
}

type LoaderOption func(*Loader)

// WithProgressWriter redirects the progress lines, stdout by default.
func WithProgressWriter(w io.Writer) LoaderOption {
	return func(l *Loader) { l.out = w }
}

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader committing through scope.
func NewLoader(scope Scope, opts ...LoaderOption) *Loader {
	l := &Loader{
		scope:  scope,
		out:    os.Stdout,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Process loads every file of job in discovery order and commits after each
// one. The first failing file aborts the run; files before it stay committed.
func (l *Loader) Process(ctx context.Context, job Job) (RunSummary, error) {
	started := time.Now()
	summary := RunSummary{
		RunID: uuid.New(),
		Job:   job.Name,
		Root:  job.Root,
	}
	log := l.logger.With(zap.String("run_id", summary.RunID.String()), zap.String("job", job.Name))

	suffix := job.Suffix
	if suffix == "" {
		suffix = discovery.DefaultSuffix
	}

	files, err := discovery.FindFiles(job.Root, suffix)
	if err != nil {
		return summary, err
	}
	summary.FilesFound = len(files)

	fmt.Fprintf(l.out, "%d files found in %s\n", len(files), job.Root)
	log.Info("load started", zap.String("root", job.Root), zap.Int("files", len(files)))

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var counts Counts
		err := l.scope.Within(ctx, func(repos repository.Repositories) error {
			var extractErr error
			counts, extractErr = job.Extract(ctx, repos, path)
			return extractErr
		})
		if err != nil {
			log.Error("load aborted",
				zap.String("file", path),
				zap.Int("files_processed", summary.FilesProcessed),
				zap.Error(err),
			)
			return summary, fmt.Errorf("failed to load %s: %w", path, err)
		}

		summary.FilesProcessed++
		summary.Rows.Add(counts)
		fmt.Fprintf(l.out, "%d/%d files processed.\n", i+1, len(files))
		log.Debug("file loaded", zap.String("file", path), zap.Object("rows", counts))
	}

	summary.Elapsed = time.Since(started)
	log.Info("load finished",
		zap.Int("files_processed", summary.FilesProcessed),
		zap.Object("rows", summary.Rows),
		zap.Duration("elapsed", summary.Elapsed),
	)

	return summary, nil
}
