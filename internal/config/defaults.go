package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort             = 8080
	DefaultRequestTimeout   = 5 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultSourceKind       = "mock"
	DefaultLatency          = 300 * time.Millisecond
	DefaultRemoteTimeout    = 10 * time.Second
	DefaultMaxRetries       = 3
	DefaultRetryBackoff     = 500 * time.Millisecond
	DefaultTag              = "all"
	DefaultPageSize         = 20
	DefaultLocale           = "zh"
	DefaultSubscriberBuffer = 16
	DefaultInitialLoad      = 30 * time.Second
	DefaultWarmupWorkers    = 4
	DefaultWarmupTimeout    = 30 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultBatchSize        = 500
	DefaultFlushInterval    = 2 * time.Second
	DefaultBufferSize       = 10000
	DefaultKafkaTopic       = "voldash.batches"
	DefaultKafkaBatchWait   = 100 * time.Millisecond
	DefaultKafkaBuffer      = 256
)

// ApplyDefaults fills zero-valued optional fields.
func (c *Config) ApplyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.PingInterval == 0 {
		c.Server.PingInterval = DefaultPingInterval
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Source defaults
	if c.Source.Kind == "" {
		c.Source.Kind = DefaultSourceKind
	}
	if c.Source.Latency == 0 {
		c.Source.Latency = DefaultLatency
	}
	if c.Source.Remote.Timeout == 0 {
		c.Source.Remote.Timeout = DefaultRemoteTimeout
	}
	if c.Source.Remote.MaxRetries == 0 {
		c.Source.Remote.MaxRetries = DefaultMaxRetries
	}
	if c.Source.Remote.RetryBackoff == 0 {
		c.Source.Remote.RetryBackoff = DefaultRetryBackoff
	}

	// Dashboard defaults
	if c.Dashboard.DefaultTag == "" {
		c.Dashboard.DefaultTag = DefaultTag
	}
	if c.Dashboard.PageSize == 0 {
		c.Dashboard.PageSize = DefaultPageSize
	}
	if c.Dashboard.Locale == "" {
		c.Dashboard.Locale = DefaultLocale
	}
	if c.Dashboard.SubscriberBuffer == 0 {
		c.Dashboard.SubscriberBuffer = DefaultSubscriberBuffer
	}

	// Registry defaults
	if c.Registry.InitialLoadTimeout == 0 {
		c.Registry.InitialLoadTimeout = DefaultInitialLoad
	}

	// Warmup defaults
	if c.Warmup.Concurrency == 0 {
		c.Warmup.Concurrency = DefaultWarmupWorkers
	}
	if c.Warmup.Timeout == 0 {
		c.Warmup.Timeout = DefaultWarmupTimeout
	}

	// Archive defaults
	applyDBDefaults(&c.Archive.Database)
	if c.Archive.BatchSize == 0 {
		c.Archive.BatchSize = DefaultBatchSize
	}
	if c.Archive.FlushInterval == 0 {
		c.Archive.FlushInterval = DefaultFlushInterval
	}
	if c.Archive.BufferSize == 0 {
		c.Archive.BufferSize = DefaultBufferSize
	}

	// Kafka defaults
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultKafkaTopic
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = DefaultKafkaBatchWait
	}
	if c.Kafka.BufferSize == 0 {
		c.Kafka.BufferSize = DefaultKafkaBuffer
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
