package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rickgao/voldash/internal/model"
)

// GetInstruments fetches the record list for a filter tag.
func (c *Client) GetInstruments(ctx context.Context, tag model.Tag) (*InstrumentsResponse, error) {
	query := url.Values{}
	query.Set("tag", string(tag))

	var resp InstrumentsResponse
	if err := c.getJSON(ctx, "/instruments", query, &resp); err != nil {
		return nil, fmt.Errorf("get instruments %s: %w", tag, err)
	}
	return &resp, nil
}

// GetInstrument fetches one instrument's detail series for a chart mode.
func (c *Client) GetInstrument(ctx context.Context, code string, kind model.ChartKind) (*InstrumentDetailResponse, error) {
	query := url.Values{}
	query.Set("mode", string(kind))

	var resp InstrumentDetailResponse
	if err := c.getJSON(ctx, "/instruments/"+url.PathEscape(code), query, &resp); err != nil {
		return nil, fmt.Errorf("get instrument %s: %w", code, err)
	}
	return &resp, nil
}

// Records fetches and converts the record list for a tag.
func (c *Client) Records(ctx context.Context, tag model.Tag) ([]model.InstrumentRecord, error) {
	resp, err := c.GetInstruments(ctx, tag)
	if err != nil {
		return nil, err
	}
	return ToRecords(resp.Instruments), nil
}

// Detail fetches and converts one instrument's detail.
func (c *Client) Detail(ctx context.Context, code string, kind model.ChartKind) (model.Detail, error) {
	resp, err := c.GetInstrument(ctx, code, kind)
	if err != nil {
		return model.Detail{}, err
	}
	return ToDetail(resp, kind), nil
}
