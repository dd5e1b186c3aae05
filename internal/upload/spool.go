package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/leaddesk-backend/internal/ingest"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	// <base>_<unixmillis><ext>, or <base>_<unixmillis>_<random><ext> after a collision.
	spoolNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+_[0-9]+(?:_[0-9]+)?(\.[a-z]+)$`)
)

// SpoolName builds the on-disk name of an upload: the sanitized base name,
// the upload time in unix milliseconds and the lower-cased extension.
func SpoolName(filename, ext string, at time.Time) string {
	base := filepath.Base(strings.TrimSpace(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s_%d%s", base, at.UnixMilli(), ext)
}

// IsSpoolName reports whether name has the shape of a file written by spool
// for a supported upload type.
func IsSpoolName(name string) bool {
	m := spoolNamePattern.FindStringSubmatch(name)
	return m != nil && ingest.IsSupportedExtension(m[1])
}

// spool copies content into dir and returns the written path. A partially
// written file is removed before returning an error.
func spool(dir, name string, content io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		ext := filepath.Ext(name)
		f, err = os.CreateTemp(dir, strings.TrimSuffix(name, ext)+"_*"+ext)
	}
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	path := f.Name()

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}
