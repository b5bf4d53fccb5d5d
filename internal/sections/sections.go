// Package sections derives the hot-section leaderboards from a record batch.
package sections

import (
	"cmp"
	"slices"
	"sync"

	"github.com/rickgao/voldash/internal/model"
)

// TopN is the number of records each leaderboard keeps.
const TopN = 5

type board struct {
	typ   model.HotSectionType
	title string
	key   func(model.InstrumentRecord) float64
	desc  bool
}

var boards = []board{
	{model.HotVolUp, "Vol Up", volChange, true},
	{model.HotVolDown, "Vol Down", volChange, false},
	{model.HotPremiumHigh, "Premium High", premium, true},
	{model.HotPremiumLow, "Premium Low", premium, false},
}

func volChange(r model.InstrumentRecord) float64 { return r.VolChange }
func premium(r model.InstrumentRecord) float64   { return r.Premium }

// Compute builds the four leaderboards. An empty input yields no sections.
// The input slice is never reordered.
func Compute(records []model.InstrumentRecord) []model.HotSection {
	if len(records) == 0 {
		return []model.HotSection{}
	}

	out := make([]model.HotSection, 0, len(boards))
	for _, s := range boards {
		sorted := slices.Clone(records)
		slices.SortStableFunc(sorted, func(a, b model.InstrumentRecord) int {
			if s.desc {
				return cmp.Compare(s.key(b), s.key(a))
			}
			return cmp.Compare(s.key(a), s.key(b))
		})
		if len(sorted) > TopN {
			sorted = sorted[:TopN]
		}
		out = append(out, model.HotSection{Type: s.typ, Title: s.title, Data: sorted})
	}
	return out
}

// Memo caches Compute for the most recent batch. A new result is computed only
// when the batch pointer changes.
type Memo struct {
	mu       sync.Mutex
	batch    *model.Batch
	sections []model.HotSection
	computed bool
}

// Sections returns the leaderboards for b.
func (m *Memo) Sections(b *model.Batch) []model.HotSection {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.computed && m.batch == b {
		return m.sections
	}

	var records []model.InstrumentRecord
	if b != nil {
		records = b.Records
	}
	m.batch = b
	m.sections = Compute(records)
	m.computed = true
	return m.sections
}
