package dto

import (
	"time"

	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/table"
	"github.com/rickgao/voldash/internal/version"
)

// Requests

type RecordsQuery struct {
	Tag      string `form:"tag"`
	Sort     string `form:"sort"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page     *int   `form:"page" binding:"omitempty,min=1"`
	PageSize *int   `form:"page_size" binding:"omitempty,min=1,max=200"`
}

type TagQuery struct {
	Tag string `form:"tag"`
}

type SetTagReq struct {
	Tag string `json:"tag" binding:"required"`
}

type InstrumentQuery struct {
	Mode string `form:"mode" binding:"omitempty,oneof=intraday 5d daily"`
}

// Responses

type TagRes struct {
	Tag   model.Tag `json:"tag"`
	Label string    `json:"label"`
	Kind  string    `json:"kind"` // all, category, exchange
}

type TableRes struct {
	Tag       model.Tag                `json:"tag"`
	BatchID   string                   `json:"batchId"`
	FetchedAt time.Time                `json:"fetchedAt"`
	Failed    bool                     `json:"failed"`
	Sort      string                   `json:"sort,omitempty"`
	Order     table.Direction          `json:"order,omitempty"`
	Items     []model.InstrumentRecord `json:"items"`
	Page      int                      `json:"page"`
	PageSize  int                      `json:"pageSize"`
	Total     int                      `json:"total"`
	Pages     int                      `json:"pages"`
}

type HotSectionsRes struct {
	Tag      model.Tag          `json:"tag"`
	BatchID  string             `json:"batchId"`
	Sections []model.HotSection `json:"sections"`
}

// SectionRes is one independently rendered part of the dashboard. When OK is
// false Error says why and Data is null.
type SectionRes struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data"`
}

type DashboardRes struct {
	Tag         model.Tag  `json:"tag"`
	HotSections SectionRes `json:"hotSections"`
	Table       SectionRes `json:"table"`
}

type InstrumentRes = detail.View

type HealthRes struct {
	Status  string         `json:"status"`
	Version version.Info   `json:"version"`
	Metrics map[string]any `json:"metrics"`
}

// ClampRecord bounds the record's percentiles to [0, 100].
func ClampRecord(r model.InstrumentRecord) model.InstrumentRecord {
	r.VolPercentile = model.ClampPercentile(r.VolPercentile)
	r.SkewPercentile = model.ClampPercentile(r.SkewPercentile)
	return r
}

// ClampRecords returns a copy of records with clamped percentiles.
func ClampRecords(records []model.InstrumentRecord) []model.InstrumentRecord {
	out := make([]model.InstrumentRecord, len(records))
	for i, r := range records {
		out[i] = ClampRecord(r)
	}
	return out
}

// ClampSections returns a copy of sections with clamped percentiles.
func ClampSections(sections []model.HotSection) []model.HotSection {
	out := make([]model.HotSection, len(sections))
	for i, s := range sections {
		s.Data = ClampRecords(s.Data)
		out[i] = s
	}
	return out
}

// NewTableRes builds the table response for one page of a batch.
func NewTableRes(b *model.Batch, field string, dir table.Direction, p table.Page) TableRes {
	return TableRes{
		Tag:       b.Tag,
		BatchID:   b.ID,
		FetchedAt: b.FetchedAt,
		Failed:    b.Failed,
		Sort:      field,
		Order:     dir,
		Items:     ClampRecords(p.Items),
		Page:      p.Page,
		PageSize:  p.PageSize,
		Total:     p.Total,
		Pages:     p.Pages,
	}
}
