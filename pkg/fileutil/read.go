package fileutil

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mcport/mcport/internal/errors"
)

// MaxFileSize is the maximum file size we'll read (4MB).
// Agent config files are small; this guards against reading garbage.
const MaxFileSize = 4 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads a file up to limit bytes, erroring on larger
// files instead of truncating them. A limit <= 0 means MaxFileSize.
//
// A missing file yields an error satisfying errors.Is(err,
// os.ErrNotExist); callers must test it that way, not with the legacy
// os.IsNotExist, because the error carries wrap context.
func ReadFileWithLimit(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxFileSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast if size is already too large
	info, err := f.Stat()
	if err == nil {
		if info.Size() > limit {
			return nil, errors.Wrapf(ErrFileTooLarge, "%s (%d > %d bytes)", path, info.Size(), limit)
		}
	}

	r := io.LimitReader(f, limit+1)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s (> %d bytes)", path, limit)
	}

	return data, nil
}

// ReadJSON reads path and unmarshals it into v.
// A missing file yields an error satisfying errors.Is(err, os.ErrNotExist).
func ReadJSON(path string, v any) error {
	data, err := ReadFileWithLimit(path, MaxFileSize)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(data, v), "parsing %s", path)
}
