package registry

import (
	"slices"
	"sync"
	"time"

	"github.com/rickgao/voldash/internal/model"
)

// registryState holds the thread-safe instrument index.
type registryState struct {
	mu sync.RWMutex

	// Known instruments indexed by category code.
	entries map[string]*Entry

	// Last successful sync.
	lastSyncAt time.Time

	changes chan Change
}

func newState() *registryState {
	return &registryState{
		entries: make(map[string]*Entry),
		changes: make(chan Change, ChangeBufferSize),
	}
}

// get returns a copy of the entry for code (read-locked).
func (s *registryState) get(code string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[code]
	if !ok {
		return Entry{}, false
	}
	out := *e
	out.Tags = slices.Clone(e.Tags)
	return out, true
}

// codes returns all known codes, sorted (read-locked).
func (s *registryState) codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.entries))
	for code := range s.entries {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

func (s *registryState) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// observe records every record of a batch (write-locked). It returns the
// number of codes added.
func (s *registryState) observe(tag model.Tag, records []model.InstrumentRecord, at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, r := range records {
		if s.upsertLocked(tag, r, at) {
			added++
		}
	}
	return added
}

// upsertLocked adds or refreshes one record (caller must hold write lock).
// It reports whether the code was new.
func (s *registryState) upsertLocked(tag model.Tag, r model.InstrumentRecord, at time.Time) bool {
	if r.CategoryCode == "" {
		return false
	}

	e, ok := s.entries[r.CategoryCode]
	if !ok {
		e = &Entry{
			Code:      r.CategoryCode,
			Name:      r.Name,
			Icon:      r.IconType,
			Tags:      []model.Tag{tag},
			FirstSeen: at,
			LastSeen:  at,
		}
		s.entries[r.CategoryCode] = e
		s.notifyChange(Change{Code: e.Code, EventType: "added", Entry: *e})
		return true
	}

	e.LastSeen = at
	if !slices.Contains(e.Tags, tag) {
		e.Tags = append(e.Tags, tag)
	}
	if r.Name != "" && r.Name != e.Name {
		e.Name = r.Name
		s.notifyChange(Change{Code: e.Code, EventType: "renamed", Entry: *e})
	}
	if r.IconType != model.IconNone {
		e.Icon = r.IconType
	}
	return false
}

// notifyChange sends a change to the changes channel (non-blocking).
func (s *registryState) notifyChange(change Change) {
	change.Entry.Tags = slices.Clone(change.Entry.Tags)
	select {
	case s.changes <- change:
	default:
		// Channel full, drop oldest by consuming one and retrying.
		select {
		case <-s.changes:
			s.changes <- change
		default:
		}
	}
}
