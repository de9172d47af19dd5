package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nettorechner/nettorechner/pkg/constants"
	"github.com/nettorechner/nettorechner/pkg/output"
	"github.com/nettorechner/nettorechner/pkg/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRatesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect or replace rate configuration sections",
	}
	cmd.AddCommand(newRatesShowCommand(opts), newRatesSetCommand(opts))
	return cmd
}

func newRatesShowCommand(opts *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.rates.Configuration(cmd.Context())
			if err != nil {
				return err
			}

			if err := validation.ValidateRatesFormat(outputFormat); err != nil {
				return err
			}
			if outputFormat == constants.OutputFormatYAML {
				return output.RatesYAML(cmd.OutOrStdout(), cfg)
			}
			return output.RatesPretty(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", constants.OutputFormatPretty, "pretty or yaml")
	return cmd
}

func newRatesSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <section> <file>",
		Short: "Replace a whole section from a JSON or YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readSectionFile(args[1])
			if err != nil {
				return err
			}

			a, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if driver := strings.ToLower(strings.TrimSpace(a.conf.Store.Driver)); driver == "" || driver == constants.StoreDriverMemory {
				return fmt.Errorf("rates set needs a persistent store, the %s store is discarded on exit: configure store.driver: %s or %s",
					constants.StoreDriverMemory, constants.StoreDriverFile, constants.StoreDriverPostgres)
			}

			stored, err := a.rates.Replace(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], stored)
			return err
		},
	}
}

// readSectionFile returns the file contents as JSON. YAML files are
// converted; anything else is passed through as JSON.
func readSectionFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var value interface{}
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s to JSON: %w", path, err)
		}
		return raw, nil
	default:
		return data, nil
	}
}
