package main

import (
	"fmt"

	"github.com/spboyer/quorum/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type methodWeight struct {
	Name     string   `yaml:"name"`
	Weight   float64  `yaml:"weight"`
	Backends []string `yaml:"backends"`
}

type effectiveConfig struct {
	Source     string            `yaml:"source"`
	Categories []models.Category `yaml:"categories"`
	Methods    []methodWeight    `yaml:"methods"`
}

func newCategoriesCommand() *cobra.Command {
	var explicit string

	cmd := &cobra.Command{
		Use:   "categories [dir]",
		Short: "Print the effective category registry and method weights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg, err := loadProjectConfig(explicit, dir)
			if err != nil {
				return err
			}

			if _, err := cfg.Registry(); err != nil {
				return fmt.Errorf("invalid categories: %w", err)
			}

			out := effectiveConfig{Source: cfg.Path, Categories: cfg.Categories}
			if out.Source == "" {
				out.Source = "defaults"
			}

			for _, m := range cfg.Methods {
				mw := methodWeight{Name: m.Name, Weight: m.Weight}
				for _, b := range m.Backends {
					mw.Backends = append(mw.Backends, fmt.Sprintf("%s (%s)", b.Name, b.Type))
				}
				out.Methods = append(out.Methods, mw)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encoding categories: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&explicit, "config", "", "Config file (default: nearest .quorum.yaml)")

	return cmd
}
