// Package config loads the voldash YAML configuration.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Source    SourceConfig    `yaml:"source"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Registry  RegistryConfig  `yaml:"registry"`
	Warmup    WarmupConfig    `yaml:"warmup"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Kafka     KafkaConfig     `yaml:"kafka"`
}

// ServerConfig holds HTTP and WebSocket settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	PingInterval    time.Duration `yaml:"ping_interval"` // WebSocket keepalive
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	File   string `yaml:"file"`   // Terminal UI only; stdout belongs to the UI
}

// SourceConfig selects and tunes the data source.
type SourceConfig struct {
	Kind    string        `yaml:"kind"`    // mock, remote
	Latency time.Duration `yaml:"latency"` // Simulated delay; negative disables
	Seed    uint64        `yaml:"seed"`    // Mock generator seed
	Remote  RemoteConfig  `yaml:"remote"`
}

// RemoteConfig holds REST feed settings.
type RemoteConfig struct {
	URL          string        `yaml:"url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// DashboardConfig holds view defaults.
type DashboardConfig struct {
	DefaultTag       string `yaml:"default_tag"`
	PageSize         int    `yaml:"page_size"`
	Locale           string `yaml:"locale"` // Collation locale for string columns
	SubscriberBuffer int    `yaml:"subscriber_buffer"`
}

// RegistryConfig holds instrument registry settings.
type RegistryConfig struct {
	ReconcileInterval  time.Duration `yaml:"reconcile_interval"` // 0 disables
	InitialLoadTimeout time.Duration `yaml:"initial_load_timeout"`
}

// WarmupConfig controls the startup cache warmer.
type WarmupConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ArchiveConfig controls the optional Postgres snapshot archive.
type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Database      DBConfig      `yaml:"database"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// KafkaConfig controls the optional batch publisher.
type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
	BufferSize   int           `yaml:"buffer_size"`
}
