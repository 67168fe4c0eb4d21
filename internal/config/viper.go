// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // report timezones must resolve on minimal images

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Source kinds understood by the loader.
const (
	SourceKindExport = "export"
	SourceKindAPI    = "api"
	SourceKindFile   = "file"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Source struct {
		Kind            string `mapstructure:"kind" yaml:"kind"`
		SheetURL        string `mapstructure:"sheet_url" yaml:"sheet_url"`
		Tab             string `mapstructure:"tab" yaml:"tab"`
		File            string `mapstructure:"file" yaml:"file"`
		APIKey          string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
		CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
	} `mapstructure:"source" yaml:"source"`

	Fetch struct {
		TimeoutSeconds    int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	} `mapstructure:"fetch" yaml:"fetch"`

	Cache struct {
		TTLSeconds int `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
	} `mapstructure:"cache" yaml:"cache"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Report struct {
		Format   string `mapstructure:"format" yaml:"format"`
		TopLimit int    `mapstructure:"top_limit" yaml:"top_limit"`
		Timezone string `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"report" yaml:"report"`

	Server struct {
		Port string `mapstructure:"port" yaml:"port"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.sheet-ledger")
	v.AddConfigPath(".sheet-ledger")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Google credentials may come from the conventional unprefixed variables
	if err := v.BindEnv("source.api_key", "LEDGER_SOURCE_API_KEY", "GOOGLE_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GOOGLE_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("source.credentials_file", "LEDGER_SOURCE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"); err != nil {
		fmt.Printf("Warning: failed to bind GOOGLE_APPLICATION_CREDENTIALS environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("source.kind", SourceKindExport)
	v.SetDefault("source.sheet_url", "")
	v.SetDefault("source.tab", "Sheet1")
	v.SetDefault("source.file", "")
	v.SetDefault("source.api_key", "")
	v.SetDefault("source.credentials_file", "")

	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.requests_per_minute", 30)

	v.SetDefault("cache.ttl_seconds", 60)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("report.format", "markdown")
	v.SetDefault("report.top_limit", 10)
	v.SetDefault("report.timezone", "Africa/Lagos")

	v.SetDefault("server.port", "8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Source.Kind {
	case SourceKindExport, SourceKindAPI, SourceKindFile:
	default:
		return fmt.Errorf("invalid source kind: %s (must be 'export', 'api' or 'file')", config.Source.Kind)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Fetch.TimeoutSeconds < 1 || config.Fetch.TimeoutSeconds > 300 {
		return fmt.Errorf("fetch.timeout_seconds must be between 1 and 300, got: %d", config.Fetch.TimeoutSeconds)
	}

	if config.Fetch.RequestsPerMinute < 1 || config.Fetch.RequestsPerMinute > 1000 {
		return fmt.Errorf("fetch.requests_per_minute must be between 1 and 1000, got: %d", config.Fetch.RequestsPerMinute)
	}

	if config.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative, got: %d", config.Cache.TTLSeconds)
	}

	switch config.Report.Format {
	case "json", "yaml", "markdown":
	default:
		return fmt.Errorf("invalid report format: %s (must be 'json', 'yaml' or 'markdown')", config.Report.Format)
	}

	if config.Report.TopLimit < 0 {
		return fmt.Errorf("report.top_limit must not be negative, got: %d", config.Report.TopLimit)
	}

	if _, err := time.LoadLocation(config.Report.Timezone); err != nil {
		return fmt.Errorf("invalid report timezone %q: %w", config.Report.Timezone, err)
	}

	return nil
}

// FetchTimeout returns the configured fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// CacheTTL returns the configured ledger cache window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// Location returns the report timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
