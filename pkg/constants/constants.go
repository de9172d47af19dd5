// Package constants provides shared constants for the nettorechner application.
package constants

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WeeksPerYear is the number of weeks used to derive monthly working hours
	WeeksPerYear = 52

	// DefaultWeeklyHours is applied when a calculation does not state weekly hours
	DefaultWeeklyHours = 40

	// MaxWeeklyHours is the number of hours in a week
	MaxWeeklyHours = 168
)

// Financial constants
const (
	// DecimalPlaces is the precision for currency rounding (2 decimal places)
	DecimalPlaces = 2

	// DecimalPrecision is the scaling factor matching DecimalPlaces
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format used for rate tables
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "nettorechner.yaml"

	// EnvPrefix is the prefix for environment overrides (NETTO_ADMIN_PIN, ...)
	EnvPrefix = "NETTO"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// Store drivers
const (
	// StoreDriverMemory keeps overrides in process memory
	StoreDriverMemory = "memory"

	// StoreDriverFile keeps overrides in a YAML file
	StoreDriverFile = "file"

	// StoreDriverPostgres keeps overrides in a PostgreSQL table
	StoreDriverPostgres = "postgres"

	// DefaultRatesFile is the default path of the file store
	DefaultRatesFile = "rates.yaml"
)

// Admin session constants
const (
	// AdminSessionCookie is the name of the admin session cookie
	AdminSessionCookie = "admin-session"

	// AdminSessionMaxAgeSeconds is the cookie lifetime (12 hours)
	AdminSessionMaxAgeSeconds = 12 * 60 * 60
)
