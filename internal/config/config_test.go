package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  port: 9000
  request_timeout: 2s
source:
  kind: remote
  remote:
    url: https://feed.example.com
dashboard:
  default_tag: metals
  locale: en
kafka:
  enabled: true
  brokers: [localhost:9092, localhost:9093]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}
	if cfg.Server.RequestTimeout != 2*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want %v", cfg.Server.RequestTimeout, 2*time.Second)
	}
	if cfg.Source.Remote.URL != "https://feed.example.com" {
		t.Errorf("Source.Remote.URL = %q", cfg.Source.Remote.URL)
	}
	if cfg.Dashboard.DefaultTag != "metals" {
		t.Errorf("Dashboard.DefaultTag = %q, want %q", cfg.Dashboard.DefaultTag, "metals")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("len(Kafka.Brokers) = %d, want 2", len(cfg.Kafka.Brokers))
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FEED_KEY", "secret123")

	yaml := `
source:
  kind: remote
  remote:
    url: https://feed.example.com
    api_key: ${TEST_FEED_KEY}
`
	cfg, err := Load(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source.Remote.APIKey != "secret123" {
		t.Errorf("Source.Remote.APIKey = %q, want %q", cfg.Source.Remote.APIKey, "secret123")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("VOLDASH_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("VOLDASH_TEST_DOTENV", "")
	os.Unsetenv("VOLDASH_TEST_DOTENV")

	if err := LoadDotEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("VOLDASH_TEST_DOTENV"); got != "from-file" {
		t.Errorf("VOLDASH_TEST_DOTENV = %q, want %q", got, "from-file")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(writeTempFile(t, "server:\n  port: 8081\n"))
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Server.Port", cfg.Server.Port, 8081},
		{"Server.RequestTimeout", cfg.Server.RequestTimeout, DefaultRequestTimeout},
		{"Log.Level", cfg.Log.Level, DefaultLogLevel},
		{"Source.Kind", cfg.Source.Kind, DefaultSourceKind},
		{"Source.Latency", cfg.Source.Latency, DefaultLatency},
		{"Dashboard.DefaultTag", cfg.Dashboard.DefaultTag, DefaultTag},
		{"Dashboard.PageSize", cfg.Dashboard.PageSize, DefaultPageSize},
		{"Dashboard.Locale", cfg.Dashboard.Locale, DefaultLocale},
		{"Archive.Database.Port", cfg.Archive.Database.Port, DefaultDBPort},
		{"Archive.BatchSize", cfg.Archive.BatchSize, DefaultBatchSize},
		{"Kafka.Topic", cfg.Kafka.Topic, DefaultKafkaTopic},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad source kind", func(c *Config) { c.Source.Kind = "csv" }, "source.kind"},
		{"remote without url", func(c *Config) { c.Source.Kind = "remote" }, "source.remote.url"},
		{"bad default tag", func(c *Config) { c.Dashboard.DefaultTag = "crypto" }, "dashboard.default_tag"},
		{"bad page size", func(c *Config) { c.Dashboard.PageSize = -1 }, "dashboard.page_size"},
		{"bad locale", func(c *Config) { c.Dashboard.Locale = "not a locale!" }, "dashboard.locale"},
		{"archive without host", func(c *Config) { c.Archive.Enabled = true }, "archive.database.host"},
		{"archive min above max", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Database = DBConfig{Host: "h", Name: "n", User: "u", MaxConns: 2, MinConns: 5}
		}, "archive.database.min_conns"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, "kafka.brokers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadAndValidateReportsPath(t *testing.T) {
	_, err := LoadAndValidate(writeTempFile(t, "log:\n  level: loud\n"))
	if err == nil || !strings.Contains(err.Error(), "validate config") {
		t.Errorf("err = %v, want validate config error", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
	if _, err := Parse([]byte("server: [")); err == nil {
		t.Error("Parse of invalid yaml should fail")
	}
}
