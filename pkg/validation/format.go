// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/nettorechner/nettorechner/pkg/constants"
)

// ValidateOutputFormat checks a calculation output format: pretty or csv.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	}
	return fmt.Errorf("expected output format of %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, format)
}

// ValidateRatesFormat checks a rate table output format: pretty or yaml.
func ValidateRatesFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatYAML:
		return nil
	}
	return fmt.Errorf("expected rates output format of %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatYAML, format)
}
