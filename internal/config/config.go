package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/viper"

	"depscope/internal/errors"
	"depscope/internal/paths"
	"depscope/internal/scan"
)

// Config represents the complete depscope configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Output   OutputConfig   `json:"output" mapstructure:"output"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig contains analysis behavior configuration
type AnalysisConfig struct {
	Workers      int      `json:"workers" mapstructure:"workers"`
	ExcludeDirs  []string `json:"excludeDirs" mapstructure:"excludeDirs"`
	IgnoreGlobs  []string `json:"ignoreGlobs" mapstructure:"ignoreGlobs"`
	ExtraStdlib  []string `json:"extraStdlib" mapstructure:"extraStdlib"`
	InternalOnly bool     `json:"internalOnly" mapstructure:"internalOnly"`
}

// OutputConfig contains default output configuration
type OutputConfig struct {
	Format       string `json:"format" mapstructure:"format"`
	ShowExternal bool   `json:"showExternal" mapstructure:"showExternal"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Analysis: AnalysisConfig{
			Workers:      0, // auto: one per CPU
			ExcludeDirs:  append([]string(nil), scan.DefaultExcludeDirs...),
			IgnoreGlobs:  []string{},
			ExtraStdlib:  []string{},
			InternalOnly: false,
		},
		Output: OutputConfig{
			Format:       "human",
			ShowExternal: false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .depscope/config.json inside root.
// Environment variables prefixed DEPSCOPE_ override file values, with
// dots in keys spelled as underscores (DEPSCOPE_LOGGING_LEVEL).
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 1)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("analysis.excludeDirs", scan.DefaultExcludeDirs)
	v.SetDefault("analysis.ignoreGlobs", []string{})
	v.SetDefault("analysis.extraStdlib", []string{})
	v.SetDefault("analysis.internalOnly", false)
	v.SetDefault("output.format", "human")
	v.SetDefault("output.showExternal", false)
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.LocalDir(root))
	v.SetEnvPrefix("DEPSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, fall back to defaults plus env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewDepscopeError(errors.ConfigInvalid,
				"failed to read configuration", err, errors.GetSuggestedFixes(errors.ConfigInvalid), nil)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewDepscopeError(errors.ConfigInvalid,
			"failed to decode configuration", err, errors.GetSuggestedFixes(errors.ConfigInvalid), nil)
	}

	return &cfg, nil
}

// Save writes the configuration to .depscope/config.json inside root.
func (c *Config) Save(root string) error {
	if err := os.MkdirAll(paths.LocalDir(root), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(paths.ConfigPath(root), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.Workers < 0 {
		return &ConfigError{Field: "analysis.workers", Message: "must be zero or positive"}
	}
	switch c.Output.Format {
	case "json", "human":
	default:
		return &ConfigError{Field: "output.format", Message: "must be json or human"}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be text or json"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "unknown level"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
