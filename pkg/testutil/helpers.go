// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nettorechner/nettorechner/internal/rates"
)

// FindState finds a state by key in the configuration.
// Returns a pointer to the state if found, nil otherwise.
func FindState(cfg rates.Configuration, key string) *rates.State {
	for i := range cfg.States {
		if cfg.States[i].Key == key {
			return &cfg.States[i]
		}
	}
	return nil
}

// WriteFile writes contents to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
