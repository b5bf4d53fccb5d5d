package source

import (
	"context"
	"fmt"

	"github.com/rickgao/voldash/internal/api"
	"github.com/rickgao/voldash/internal/model"
)

// Remote reads from the REST instrument feed.
type Remote struct {
	client *api.Client
}

// NewRemote creates a Source backed by client.
func NewRemote(client *api.Client) *Remote {
	return &Remote{client: client}
}

// RecordsForTag fetches the record list for tag.
func (r *Remote) RecordsForTag(ctx context.Context, tag model.Tag) ([]model.InstrumentRecord, error) {
	if _, err := model.ParseTag(string(tag)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	return r.client.Records(ctx, tag)
}

// Detail fetches one instrument. A 404 from the feed maps to ErrUnknownCode.
func (r *Remote) Detail(ctx context.Context, code string, kind model.ChartKind) (model.Detail, error) {
	d, err := r.client.Detail(ctx, code, kind)
	if api.IsNotFound(err) {
		return model.Detail{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if err != nil {
		return model.Detail{}, err
	}
	d.Mode = kind
	return d, nil
}
