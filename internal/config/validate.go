package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server.request_timeout must be >= 0")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	switch c.Source.Kind {
	case "mock":
	case "remote":
		if c.Source.Remote.URL == "" {
			return errors.New("source.remote.url is required when source.kind is remote")
		}
		if c.Source.Remote.MaxRetries < 0 {
			return errors.New("source.remote.max_retries must be >= 0")
		}
	default:
		return fmt.Errorf("source.kind must be mock or remote, got %q", c.Source.Kind)
	}

	if _, err := model.ParseTag(c.Dashboard.DefaultTag); err != nil {
		return fmt.Errorf("dashboard.default_tag: %w", err)
	}
	if c.Dashboard.PageSize < 1 {
		return errors.New("dashboard.page_size must be >= 1")
	}
	if _, err := language.Parse(c.Dashboard.Locale); err != nil {
		return fmt.Errorf("dashboard.locale: %w", err)
	}
	if c.Dashboard.SubscriberBuffer < 1 {
		return errors.New("dashboard.subscriber_buffer must be >= 1")
	}

	if c.Registry.ReconcileInterval < 0 {
		return errors.New("registry.reconcile_interval must be >= 0")
	}

	if c.Warmup.Enabled && c.Warmup.Concurrency < 1 {
		return errors.New("warmup.concurrency must be >= 1")
	}

	if c.Archive.Enabled {
		if err := c.Archive.Database.validate("archive.database"); err != nil {
			return err
		}
		if c.Archive.BatchSize < 1 {
			return errors.New("archive.batch_size must be >= 1")
		}
		if c.Archive.BufferSize < 1 {
			return errors.New("archive.buffer_size must be >= 1")
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return errors.New("kafka.topic is required when kafka is enabled")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
