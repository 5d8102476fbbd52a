package persistence

import (
	"os"
	"path/filepath"

	gerrors "github.com/go-faster/errors"
)

// writeFileAtomic replaces path in one step: the payload goes to a temp file
// in the same directory first, then rename swaps it in. A crash mid-write
// leaves the previous version intact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return gerrors.Wrap(err, "create data directory")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return gerrors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return gerrors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return gerrors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return gerrors.Wrap(err, "replace file")
	}
	return nil
}
