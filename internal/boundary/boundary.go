// Package boundary isolates failures of individual dashboard sections.
//
// A Boundary runs a section's render function, converting a returned error or
// a panic into a failed flag. Other sections keep rendering. The flag stays
// set until Reset, which is how a user retries.
package boundary

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Boundary guards one section.
type Boundary struct {
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	failed bool
	err    error
}

// New creates a boundary for the named section.
func New(name string, logger *slog.Logger) *Boundary {
	if logger == nil {
		logger = slog.Default()
	}
	return &Boundary{name: name, logger: logger}
}

// Name returns the section name.
func (b *Boundary) Name() string { return b.name }

// Run calls fn unless the boundary has already failed. An error or panic from
// fn marks the boundary failed. Run reports whether fn completed cleanly.
func (b *Boundary) Run(fn func() error) (ok bool) {
	if b.Failed() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			b.fail(fmt.Errorf("panic: %v", r))
			b.logger.Error("section panicked",
				"section", b.name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			ok = false
		}
	}()

	if err := fn(); err != nil {
		b.fail(err)
		b.logger.Error("section failed", "section", b.name, "err", err)
		return false
	}
	return true
}

func (b *Boundary) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = true
	b.err = err
}

// Failed reports whether the section is in the failed state.
func (b *Boundary) Failed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failed
}

// Err returns the failure cause, or nil.
func (b *Boundary) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Reset clears the failure so the next Run retries.
func (b *Boundary) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = false
	b.err = nil
}
