package source

import (
	"context"
	"errors"

	"github.com/rickgao/voldash/internal/model"
)

var (
	// ErrUnknownTag is returned for a tag outside the fixed tag domain.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrUnknownCode is returned when no instrument has the requested code.
	ErrUnknownCode = errors.New("unknown instrument code")
)

// Source produces instrument data.
type Source interface {
	// RecordsForTag returns the records selected by tag. The result has
	// unique ids and may be empty.
	RecordsForTag(ctx context.Context, tag model.Tag) ([]model.InstrumentRecord, error)

	// Detail returns one instrument's scalar metrics and the series for kind.
	// Markers are left empty.
	Detail(ctx context.Context, code string, kind model.ChartKind) (model.Detail, error)
}
