package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The default port belongs to the default driver.
	if !v.IsSet("source.port") {
		cfg.Source.Port = DefaultPort(cfg.Source.Driver)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.Source.DSN = expandEnvVar(cfg.Source.DSN)
	cfg.Source.Host = expandEnvVar(cfg.Source.Host)
	cfg.Source.User = expandEnvVar(cfg.Source.User)
	cfg.Source.Password = expandEnvVar(cfg.Source.Password)
	cfg.Source.Database = expandEnvVar(cfg.Source.Database)

	cfg.Export.OutputDir = expandEnvVar(cfg.Export.OutputDir)
	cfg.Export.TableList = expandEnvVar(cfg.Export.TableList)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides contains CLI values that take precedence over the config file.
// Zero values leave the file setting untouched.
type Overrides struct {
	LogLevel  string
	LogFormat string
	Driver    string
	DSN       string
	BatchSize int
	OutputDir string
	TableList string
	Compress  string
	Order     string
	Verify    string
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.Driver != "" {
		c.Source.Driver = o.Driver
	}
	if o.DSN != "" {
		c.Source.DSN = o.DSN
	}
	if o.BatchSize > 0 {
		c.Export.BatchSize = o.BatchSize
	}
	if o.OutputDir != "" {
		c.Export.OutputDir = o.OutputDir
	}
	if o.TableList != "" {
		c.Export.TableList = o.TableList
	}
	if o.Compress != "" {
		c.Export.Compress = o.Compress
	}
	if o.Order != "" {
		c.Export.Order = o.Order
	}
	if o.Verify != "" {
		c.Export.Verify = o.Verify
	}
}

// LoadOrDefault loads the config file when it exists. A missing file is
// only acceptable when the connection comes from the command line.
func LoadOrDefault(configPath string, dsnOverride string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) && dsnOverride != "" {
			return DefaultConfig(), nil
		}
	}
	return Load(configPath)
}
