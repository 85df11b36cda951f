package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/database"
	"github.com/dbsmedya/goexport/internal/dialect"
	"github.com/dbsmedya/goexport/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	driver    string
	dsn       string
)

var rootCmd = &cobra.Command{
	Use:   "goexport",
	Short: "Export database tables as INSERT scripts",
	Long: `A CLI tool that exports every base table of a database as a standalone
SQL script of batched INSERT statements, ready to replay into another
SQL Server instance.

Features:
  - One <schema>.<table>.sql file per non-empty table
  - Batched INSERT ... VALUES blocks separated by GO
  - IDENTITY_INSERT guards for tables with identity columns
  - Catalog discovery or an explicit table list, with include/exclude filters
  - Optional foreign key ordering and zstd compression`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "goexport.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Connection overrides
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "",
		"Override source driver (sqlserver, mysql)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "",
		"Source connection string; the config file becomes optional")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Driver    string
	DSN       string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Driver:    driver,
		DSN:       dsn,
	}
}

// loadConfig reads the config file, applies global and command overrides
// and validates the result.
func loadConfig(cmdOverrides config.Overrides) (*config.Config, error) {
	global := GetCLIOverrides()

	cfg, err := config.LoadOrDefault(GetConfigFile(), global.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// A driver switch without an explicit port moves to that driver's port.
	if global.Driver != "" && cfg.Source.Port == config.DefaultPort(cfg.Source.Driver) {
		cfg.Source.Port = config.DefaultPort(global.Driver)
	}

	cmdOverrides.LogLevel = global.LogLevel
	cmdOverrides.LogFormat = global.LogFormat
	cmdOverrides.Driver = global.Driver
	cmdOverrides.DSN = global.DSN
	cfg.ApplyOverrides(cmdOverrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// connectSource opens the source database and resolves its dialect.
func connectSource(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.Manager, dialect.Dialect, error) {
	d, err := dialect.For(cfg.Source.Driver)
	if err != nil {
		return nil, nil, err
	}

	dbManager := database.NewManager(cfg)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, nil, err
	}

	log.Infow("Connected to source database",
		"driver", d.Name(),
		"database", cfg.Source.Database,
	)

	return dbManager, d, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
