package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nettorechner/nettorechner/pkg/constants"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nettorechner.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NETTO_ADMIN_PIN", "NETTO_STORE_DRIVER", "NETTO_STORE_DSN", "NETTO_SERVER_ADDRESS",
		"NETTO_LOGGING_LEVEL", "NETTO_OUTPUT_FORMAT", LegacyPINEnv, DatabaseURLEnv,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigurationDefaultsWhenMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Server.Address != constants.DefaultServerAddress {
		t.Errorf("expected default address, got %q", cfg.Server.Address)
	}
	if cfg.Store.Driver != constants.StoreDriverMemory {
		t.Errorf("expected memory store, got %q", cfg.Store.Driver)
	}
	if cfg.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected pretty output, got %q", cfg.Output.Format)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
	if cfg.Admin.PIN != "" {
		t.Errorf("expected no PIN, got %q", cfg.Admin.PIN)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `logging:
  level: debug
  format: console
  outputFile: /tmp/nettorechner.log
output:
  format: csv
server:
  address: 127.0.0.1:9000
  maxBodySize: 1M
store:
  driver: file
  path: /var/lib/nettorechner/rates.yaml
admin:
  pin: " 4711 "
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" || cfg.Logging.OutputFile != "/tmp/nettorechner.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("expected csv output, got %q", cfg.Output.Format)
	}
	if cfg.Server.Address != "127.0.0.1:9000" || cfg.Server.MaxBodySize != "1M" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Store.Driver != "file" || cfg.Store.Path != "/var/lib/nettorechner/rates.yaml" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Admin.PIN != "4711" {
		t.Errorf("expected trimmed PIN, got %q", cfg.Admin.PIN)
	}
}

func TestLoadConfigurationEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "admin:\n  pin: \"1111\"\n")

	t.Setenv("NETTO_ADMIN_PIN", "2222")
	t.Setenv("NETTO_STORE_DRIVER", "postgres")
	t.Setenv(DatabaseURLEnv, "postgres://localhost/netto")

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Admin.PIN != "2222" {
		t.Errorf("expected env PIN to win, got %q", cfg.Admin.PIN)
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.Store.Driver)
	}
	if cfg.Store.DSN != "postgres://localhost/netto" {
		t.Errorf("expected DATABASE_URL fallback, got %q", cfg.Store.DSN)
	}
}

func TestLoadConfigurationLegacyPIN(t *testing.T) {
	clearEnv(t)
	t.Setenv(LegacyPINEnv, "3333")

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Admin.PIN != "3333" {
		t.Errorf("expected legacy PIN, got %q", cfg.Admin.PIN)
	}
}

func TestLoadConfigurationRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"output format", "output:\n  format: json\n"},
		{"rates-only output format", "output:\n  format: yaml\n"},
		{"log level", "logging:\n  level: loud\n"},
		{"store driver", "store:\n  driver: redis\n"},
		{"malformed yaml", "server: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := LoadConfiguration(writeConfig(t, tt.contents)); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}
