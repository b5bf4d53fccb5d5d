package viewstate

import (
	"time"

	"github.com/rickgao/voldash/internal/model"
)

// Summary is the JSON form of a State. It carries the hot sections but not
// the full record list, which callers page through separately.
type Summary struct {
	Tag         model.Tag          `json:"tag"`
	Label       string             `json:"label"`
	Loading     bool               `json:"loading"`
	BatchID     string             `json:"batchId,omitempty"`
	FetchedAt   *time.Time         `json:"fetchedAt,omitempty"`
	Failed      bool               `json:"failed"`
	Count       int                `json:"count"`
	HotSections []model.HotSection `json:"hotSections"`
	Version     uint64             `json:"version"`
}

// Summary flattens s for transport.
func (s State) Summary() Summary {
	sum := Summary{
		Tag:         s.Tag,
		Label:       s.Tag.Label(),
		Loading:     s.Loading,
		Count:       s.Batch.Len(),
		HotSections: s.HotSections,
		Version:     s.Version,
	}
	if sum.HotSections == nil {
		sum.HotSections = []model.HotSection{}
	}
	if s.Batch != nil {
		at := s.Batch.FetchedAt
		sum.BatchID = s.Batch.ID
		sum.FetchedAt = &at
		sum.Failed = s.Batch.Failed
	}
	return sum
}
