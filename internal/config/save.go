package config

import (
	"path/filepath"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
	"github.com/mcport/mcport/pkg/fileutil"
)

// Save writes the configuration to path as YAML. An empty path uses the
// default location. The file is validated before writing so a broken
// config never lands on disk.
func Save(cfg *Config, path string) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], "refusing to save invalid config")
	}
	if path == "" {
		path = Path()
	}

	if err := paths.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
