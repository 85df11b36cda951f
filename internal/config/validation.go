package config

import (
	"fmt"
	"path"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSource()...)
	errors = append(errors, c.validateExport()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSource() ValidationErrors {
	var errors ValidationErrors
	db := &c.Source

	validDrivers := map[string]bool{DriverSQLServer: true, DriverMySQL: true}
	if !validDrivers[db.Driver] {
		errors = append(errors, ValidationError{
			Field:   "source.driver",
			Message: "driver must be 'sqlserver' or 'mysql'",
		})
	}

	// A raw DSN carries everything the driver needs.
	if db.DSN != "" {
		return errors
	}

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "source.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "source.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "source.database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "source.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.ConnectTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "source.connect_timeout_seconds",
			Message: "connect_timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateExport() ValidationErrors {
	var errors ValidationErrors

	if c.Export.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "export.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Export.OutputDir == "" {
		errors = append(errors, ValidationError{
			Field:   "export.output_dir",
			Message: "output_dir is required",
		})
	}

	validOrders := map[string]bool{OrderCatalog: true, OrderDependency: true, "": true}
	if !validOrders[c.Export.Order] {
		errors = append(errors, ValidationError{
			Field:   "export.order",
			Message: "order must be 'catalog' or 'dependency'",
		})
	}

	validCompress := map[string]bool{"zstd": true, "": true}
	if !validCompress[c.Export.Compress] {
		errors = append(errors, ValidationError{
			Field:   "export.compress",
			Message: "compress must be empty or 'zstd'",
		})
	}

	validVerify := map[string]bool{"count": true, "sha256": true, "skip": true, "": true}
	if !validVerify[c.Export.Verify] {
		errors = append(errors, ValidationError{
			Field:   "export.verify",
			Message: "verify must be 'count', 'sha256', or 'skip'",
		})
	}

	for i, pattern := range c.Export.Include {
		if _, err := path.Match(pattern, ""); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("export.include[%d]", i),
				Message: fmt.Sprintf("invalid pattern %q", pattern),
			})
		}
	}
	for i, pattern := range c.Export.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("export.exclude[%d]", i),
				Message: fmt.Sprintf("invalid pattern %q", pattern),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
