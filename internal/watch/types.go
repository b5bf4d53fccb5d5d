package watch

import (
	"errors"
	"time"

	"github.com/rickgao/voldash/internal/stream"
)

var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// Event is one decoded server frame with its local receive time.
type Event struct {
	Message    stream.Message
	ReceivedAt time.Time
}

// Config holds client configuration.
type Config struct {
	URL               string        // ws:// or wss:// address of the /ws endpoint
	Tag               string        // Tag selected after every connect; empty keeps the server's
	PingTimeout       time.Duration // Max silence before the connection counts as stale
	WriteTimeout      time.Duration
	BufferSize        int
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:               "ws://localhost:8080/ws",
		PingTimeout:       90 * time.Second,
		WriteTimeout:      5 * time.Second,
		BufferSize:        64,
		ReconnectBaseWait: time.Second,
		ReconnectMaxWait:  30 * time.Second,
	}
}
