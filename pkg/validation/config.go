package validation

import (
	"fmt"
	"strings"

	"github.com/nettorechner/nettorechner/pkg/constants"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// ValidateStoreDriver checks that driver names a supported configuration
// store. An empty driver is accepted and means the in-memory store.
func ValidateStoreDriver(driver string) error {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", constants.StoreDriverMemory, constants.StoreDriverFile, constants.StoreDriverPostgres:
		return nil
	}
	return fmt.Errorf("expected store driver of %s, %s or %s, got %s",
		constants.StoreDriverMemory, constants.StoreDriverFile, constants.StoreDriverPostgres, driver)
}

// ValidateLogLevel checks a logging level name. Empty means the default.
func ValidateLogLevel(level string) error {
	if level == "" {
		return nil
	}
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return nil
		}
	}
	return fmt.Errorf("expected log level of %s, got %s", strings.Join(logLevels, ", "), level)
}
