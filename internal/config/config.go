// Package config defines the application configuration and loads it from a
// YAML file and NETTO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/nettorechner/nettorechner/internal/store"
	"github.com/nettorechner/nettorechner/pkg/constants"
	"github.com/nettorechner/nettorechner/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for nettorechner.
type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server,omitempty"`
	Store   store.Config  `mapstructure:"store" yaml:"store,omitempty"`
	Admin   AdminConfig   `mapstructure:"admin" yaml:"admin,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds HTTP listener options.
type ServerConfig struct {
	Address     string `mapstructure:"address" yaml:"address,omitempty"`
	MaxBodySize string `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"`
}

// AdminConfig holds the administrative PIN.
type AdminConfig struct {
	PIN string `mapstructure:"pin" yaml:"pin,omitempty"`
}

// Legacy environment variables honoured when the NETTO_* form is unset.
const (
	LegacyPINEnv   = "ADMIN_ACCESS_PIN"
	DatabaseURLEnv = "DATABASE_URL"
)

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the defaults; environment
// variables override both.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.applyLegacyEnv()
	configuration.Admin.PIN = strings.TrimSpace(configuration.Admin.PIN)

	if err := validation.ValidateOutputFormat(configuration.Output.Format); err != nil {
		return nil, fmt.Errorf("invalid output configuration: %w", err)
	}
	if err := validation.ValidateLogLevel(configuration.Logging.Level); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}
	if err := validation.ValidateStoreDriver(configuration.Store.Driver); err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("store.driver", constants.StoreDriverMemory)
	v.SetDefault("store.path", constants.DefaultRatesFile)
	v.SetDefault("store.dsn", "")
	v.SetDefault("admin.pin", "")
}

func (c *Configuration) applyLegacyEnv() {
	if strings.TrimSpace(c.Admin.PIN) == "" {
		c.Admin.PIN = os.Getenv(LegacyPINEnv)
	}
	if c.Store.DSN == "" {
		c.Store.DSN = os.Getenv(DatabaseURLEnv)
	}
}
