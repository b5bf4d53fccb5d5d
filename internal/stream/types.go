package stream

import (
	"errors"
	"time"

	"github.com/rickgao/voldash/internal/viewstate"
)

// Message types.
const (
	TypeState  = "state"
	TypeSetTag = "setTag"
	TypeError  = "error"
)

var ErrHubClosed = errors.New("stream hub closed")

// Message is the envelope for every frame sent to a client.
type Message struct {
	Type  string             `json:"type"`
	State *viewstate.Summary `json:"state,omitempty"`
	Error string             `json:"error,omitempty"`
}

// Command is a client-to-server frame.
type Command struct {
	Type string `json:"type"`
	Tag  string `json:"tag,omitempty"`
}

// Config holds hub configuration.
type Config struct {
	PingInterval time.Duration // Server ping period
	PongTimeout  time.Duration // Read deadline extension per pong (default: 2x ping)
	WriteTimeout time.Duration
	ReadLimit    int64 // Max inbound frame size in bytes
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		ReadLimit:    4096,
	}
}
