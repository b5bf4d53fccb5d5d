package registry

import (
	"context"
	"time"

	"github.com/rickgao/voldash/internal/model"
)

// ChangeBufferSize is the capacity of the Change channel.
const ChangeBufferSize = 256

// Registry manages the set of known instruments.
type Registry interface {
	// Start performs the initial sync and begins background reconciliation.
	Start(ctx context.Context) error

	// Stop gracefully shuts down.
	Stop(ctx context.Context) error

	// Known reports whether code has been seen.
	Known(code string) bool

	// Get returns the entry for code.
	Get(code string) (Entry, bool)

	// Codes returns every known code, sorted.
	Codes() []string

	// HandleBatch records every instrument in a fresh batch.
	HandleBatch(b *model.Batch)

	// SubscribeChanges returns a channel of registry additions and updates.
	SubscribeChanges() <-chan Change
}

// Entry is what the registry knows about one instrument code.
type Entry struct {
	Code      string
	Name      string
	Icon      model.IconType
	Tags      []model.Tag // Tags whose batches contained the code
	FirstSeen time.Time
	LastSeen  time.Time
}

// Change is a registry transition.
type Change struct {
	Code      string
	EventType string // "added", "renamed"
	Entry     Entry
}
