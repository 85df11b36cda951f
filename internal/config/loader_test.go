package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
source:
  driver: sqlserver
  host: localhost
  port: 1434
  user: sa
  password: secret
  database: Northwind
  tls: disable

export:
  batch_size: 500
  output_dir: ./dump
  table_list: tables.txt
  include:
    - "dbo.*"
  exclude:
    - "dbo.sysdiagrams"
  order: dependency
  compress: zstd

logging:
  level: debug
  format: json
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify source config
	if cfg.Source.Host != "localhost" {
		t.Errorf("expected source host 'localhost', got %s", cfg.Source.Host)
	}
	if cfg.Source.Port != 1434 {
		t.Errorf("expected source port 1434, got %d", cfg.Source.Port)
	}
	if cfg.Source.TLS != "disable" {
		t.Errorf("expected tls 'disable', got %s", cfg.Source.TLS)
	}

	// Verify export config
	if cfg.Export.BatchSize != 500 {
		t.Errorf("expected batch_size 500, got %d", cfg.Export.BatchSize)
	}
	if cfg.Export.TableList != "tables.txt" {
		t.Errorf("expected table_list 'tables.txt', got %s", cfg.Export.TableList)
	}
	if len(cfg.Export.Include) != 1 || cfg.Export.Include[0] != "dbo.*" {
		t.Errorf("unexpected include patterns: %v", cfg.Export.Include)
	}
	if len(cfg.Export.Exclude) != 1 {
		t.Errorf("unexpected exclude patterns: %v", cfg.Export.Exclude)
	}
	if cfg.Export.Order != OrderDependency {
		t.Errorf("expected order 'dependency', got %s", cfg.Export.Order)
	}
	if cfg.Export.Compress != "zstd" {
		t.Errorf("expected compress 'zstd', got %s", cfg.Export.Compress)
	}

	// Defaults survive partial files
	if cfg.Source.AppName != "goexport" {
		t.Errorf("expected default app_name 'goexport', got %s", cfg.Source.AppName)
	}

	// Verify logging config
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadMySQLDefaultPort(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mysql.yaml")

	configContent := `
source:
  driver: mysql
  host: localhost
  user: root
  database: shop
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Port != 3306 {
		t.Errorf("expected mysql default port 3306, got %d", cfg.Source.Port)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "env-host")
	t.Setenv("TEST_DB_USER", "env-user")
	t.Setenv("TEST_DB_PASS", "env-pass")
	t.Setenv("TEST_OUT_DIR", "/var/dump")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
source:
  host: ${TEST_DB_HOST}
  user: ${TEST_DB_USER}
  password: ${TEST_DB_PASS}
  database: Northwind
export:
  output_dir: $TEST_OUT_DIR
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Host != "env-host" {
		t.Errorf("expected source host 'env-host', got %s", cfg.Source.Host)
	}
	if cfg.Source.User != "env-user" {
		t.Errorf("expected source user 'env-user', got %s", cfg.Source.User)
	}
	if cfg.Source.Password != "env-pass" {
		t.Errorf("expected source password 'env-pass', got %s", cfg.Source.Password)
	}
	if cfg.Export.OutputDir != "/var/dump" {
		t.Errorf("expected output_dir '/var/dump', got %s", cfg.Export.OutputDir)
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadOrDefault(missing, "sqlserver://sa:pw@localhost")
	if err != nil {
		t.Fatalf("expected defaults when DSN is given, got: %v", err)
	}
	if cfg.Export.BatchSize != 100 {
		t.Errorf("expected default batch_size, got %d", cfg.Export.BatchSize)
	}

	if _, err := LoadOrDefault(missing, ""); err == nil {
		t.Error("expected error for missing file without DSN")
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${NONEXISTENT}", "${NONEXISTENT}"}, // Unset vars remain unchanged
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		result := expandEnvVar(tt.input)
		if result != tt.expected {
			t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
