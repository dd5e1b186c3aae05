package cron

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/leaddesk-backend/pkg/logger"
)

func writeAged(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("FirstName,Phone\n"), 0o600))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestUploadSweepJobRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stale := writeAged(t, dir, "leads_1748772000000.csv", now.Add(-2*time.Hour))
	staleRetry := writeAged(t, dir, "leads_1748772000000_482913.xls", now.Add(-2*time.Hour))
	fresh := writeAged(t, dir, "leads_1748779200000.xlsx", now.Add(-10*time.Minute))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	foreign := []string{
		writeAged(t, dir, ".gitkeep", now.Add(-48*time.Hour)),
		writeAged(t, dir, "README.md", now.Add(-48*time.Hour)),
		writeAged(t, dir, "export_1748772000000.txt", now.Add(-48*time.Hour)),
		writeAged(t, dir, "leads.csv", now.Add(-48*time.Hour)),
	}

	job, err := NewUploadSweepJob(UploadSweepJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Dir:    dir,
		MaxAge: time.Hour,
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)
	assert.Equal(t, UploadSweepJobName, job.Name())

	require.NoError(t, job.Run(context.Background()))

	for _, path := range []string{stale, staleRetry} {
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "stale upload %s should be removed", filepath.Base(path))
	}
	for _, path := range foreign {
		_, err = os.Stat(path)
		assert.NoError(t, err, "%s was not written by the upload pipeline", filepath.Base(path))
	}
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "fresh file should remain")
	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err, "directories are not swept")
}

func TestUploadSweepJobMissingDir(t *testing.T) {
	job, err := NewUploadSweepJob(UploadSweepJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Dir:    filepath.Join(t.TempDir(), "absent"),
	})
	require.NoError(t, err)
	assert.NoError(t, job.Run(context.Background()))
}

func TestUploadSweepJobCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, dir, "old_1.csv", time.Now().Add(-48*time.Hour))

	job, err := NewUploadSweepJob(UploadSweepJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Dir:    dir,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
}

func TestNewUploadSweepJobValidatesParams(t *testing.T) {
	_, err := NewUploadSweepJob(UploadSweepJobParams{Dir: "uploads"})
	assert.Error(t, err)
	_, err = NewUploadSweepJob(UploadSweepJobParams{Logger: logger.New(logger.Options{ServiceName: "cron-test"})})
	assert.Error(t, err)
}
