package cron

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/leaddesk-backend/internal/upload"
	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
)

const (
	UploadSweepJobName       = "upload-sweep"
	defaultUploadSweepMaxAge = time.Hour
)

type UploadSweepJobParams struct {
	Logger *logger.Logger
	Dir    string
	MaxAge time.Duration
	Now    func() time.Time
}

// UploadSweepJob removes spooled upload files left behind by a process that
// died before its own cleanup ran.
type UploadSweepJob struct {
	logg   *logger.Logger
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

func NewUploadSweepJob(params UploadSweepJobParams) (*UploadSweepJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Dir == "" {
		return nil, fmt.Errorf("upload dir required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultUploadSweepMaxAge
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &UploadSweepJob{logg: params.Logger, dir: params.Dir, maxAge: maxAge, now: now}, nil
}

func (j *UploadSweepJob) Name() string { return UploadSweepJobName }

// Run deletes spooled uploads in the upload dir last modified before the
// cutoff. Subdirectories and files with other names are left alone. Every failure is collected so one
// stuck file does not stop the sweep.
func (j *UploadSweepJob) Run(ctx context.Context) error {
	entries, err := os.ReadDir(j.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := j.now().Add(-j.maxAge)
	var (
		removed int
		errs    error
	)
	for _, entry := range entries {
		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}
		if !entry.Type().IsRegular() || !upload.IsSpoolName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stat %s: %w", entry.Name(), err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", entry.Name(), err))
			continue
		}
		removed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"removed":  removed,
		"failures": len(multierr.Errors(errs)),
		"scanned":  len(entries),
	})
	j.logg.Info(logCtx, "cron.upload_sweep")
	return errs
}
