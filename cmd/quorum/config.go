package main

import (
	"fmt"
	"strings"

	"github.com/spboyer/quorum/internal/projectconfig"
	"github.com/spboyer/quorum/internal/validation"
)

// loadProjectConfig loads an explicit --config file, or searches upward from
// dir. Any file found is schema checked before it is decoded.
func loadProjectConfig(explicit, dir string) (*projectconfig.ProjectConfig, error) {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)

	if explicit != "" {
		if err := checkSchema(explicit); err != nil {
			return nil, err
		}
		cfg, err = projectconfig.LoadFile(explicit)
	} else {
		cfg, err = projectconfig.Load(dir)
		if err == nil && cfg.Path != "" {
			err = checkSchema(cfg.Path)
		}
	}

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func checkSchema(path string) error {
	errs, err := validation.ValidateConfigFile(path)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s does not match the config schema:\n  %s", path, strings.Join(errs, "\n  "))
	}
	return nil
}
