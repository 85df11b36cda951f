// Package config provides configuration structures and loading for GoExport.
package config

// Supported source drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverMySQL     = "mysql"
)

// Table ordering modes.
const (
	OrderCatalog    = "catalog"
	OrderDependency = "dependency"
)

// Config represents the complete application configuration.
type Config struct {
	Source  DatabaseConfig `yaml:"source" mapstructure:"source"`
	Export  ExportConfig   `yaml:"export" mapstructure:"export"`
	Logging LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents the source database connection configuration.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"` // sqlserver or mysql
	DSN      string `yaml:"dsn" mapstructure:"dsn"`       // raw connection string, overrides the fields below
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Instance string `yaml:"instance" mapstructure:"instance"` // SQL Server named instance
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
	TLS      string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	AppName  string `yaml:"app_name" mapstructure:"app_name"`

	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds" mapstructure:"connect_timeout_seconds"`
}

// ExportConfig represents table selection and script output settings.
type ExportConfig struct {
	BatchSize int      `yaml:"batch_size" mapstructure:"batch_size"`
	OutputDir string   `yaml:"output_dir" mapstructure:"output_dir"`
	TableList string   `yaml:"table_list" mapstructure:"table_list"` // file with one qualified table per line
	Include   []string `yaml:"include" mapstructure:"include"`       // glob patterns over schema.table
	Exclude   []string `yaml:"exclude" mapstructure:"exclude"`
	Order     string   `yaml:"order" mapstructure:"order"`       // catalog or dependency
	Compress  string   `yaml:"compress" mapstructure:"compress"` // "" or zstd
	Overwrite bool     `yaml:"overwrite" mapstructure:"overwrite"`
	Verify    string   `yaml:"verify" mapstructure:"verify"` // count, sha256, or skip
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: DatabaseConfig{
			Driver:                DriverSQLServer,
			Port:                  1433,
			TLS:                   "preferred",
			AppName:               "goexport",
			ConnectTimeoutSeconds: 30,
		},
		Export: ExportConfig{
			BatchSize: 100,
			OutputDir: ".",
			Order:     OrderCatalog,
			Overwrite: true,
			Verify:    "count",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// DefaultPort returns the conventional port for a driver.
func DefaultPort(driver string) int {
	if driver == DriverMySQL {
		return 3306
	}
	return 1433
}
