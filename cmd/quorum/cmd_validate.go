package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spboyer/quorum/internal/projectconfig"
	"github.com/spboyer/quorum/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Validate a config file",
		Long: `Validate a config file against the schema and the semantic rules
(weights, thresholds, duplicate names). Without an argument the nearest
.quorum.yaml is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			path := ""
			if len(args) > 0 {
				path = args[0]
			} else {
				cfg, err := projectconfig.Load(".")
				if err != nil {
					return err
				}
				if cfg.Path == "" {
					return errors.New("no .quorum.yaml found in this directory or its parents")
				}
				path = cfg.Path
			}

			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}

			schemaErrs, err := validation.ValidateConfigFile(path)
			if err != nil {
				return err
			}
			if len(schemaErrs) > 0 {
				fmt.Fprintf(w, "❌ %s\n", path) //nolint:errcheck
				for _, e := range schemaErrs {
					fmt.Fprintf(w, "  %s\n", e) //nolint:errcheck
				}
				return fmt.Errorf("%s has %d schema error(s)", path, len(schemaErrs))
			}

			cfg, err := projectconfig.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(w, "❌ %s\n  %v\n", path, err) //nolint:errcheck
				return fmt.Errorf("%s is invalid", path)
			}

			fmt.Fprintf(w, "✅ %s is valid (%d categories, %d methods)\n", path, len(cfg.Categories), len(cfg.Methods)) //nolint:errcheck
			return nil
		},
	}
}
