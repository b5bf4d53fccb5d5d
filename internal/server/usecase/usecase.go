package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/boundary"
	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/sections"
	"github.com/rickgao/voldash/internal/server/apperr"
	"github.com/rickgao/voldash/internal/server/dto"
	"github.com/rickgao/voldash/internal/table"
	"github.com/rickgao/voldash/internal/version"
	"github.com/rickgao/voldash/internal/viewstate"
)

type UsecaseItf interface {
	Tags() []dto.TagRes
	State() viewstate.Summary
	SetTag(tag string) (viewstate.Summary, error)
	Records(ctx context.Context, q dto.RecordsQuery) (dto.TableRes, error)
	HotSections(ctx context.Context, tag string) (dto.HotSectionsRes, error)
	Dashboard(ctx context.Context, q dto.RecordsQuery) (dto.DashboardRes, error)
	Instrument(ctx context.Context, code, mode string) (detail.View, error)
	Health() dto.HealthRes
}

// Controller is the subset of the view-state controller the API needs.
type Controller interface {
	State() viewstate.State
	Tag() model.Tag
	SetTag(tag model.Tag) error
	Records(ctx context.Context, tag model.Tag) (*model.Batch, error)
}

// DetailLookup resolves instrument detail views.
type DetailLookup interface {
	Lookup(ctx context.Context, code string, kind model.ChartKind) (detail.View, error)
}

type Usecase struct {
	ctrl     Controller
	details  DetailLookup
	metrics  *metrics.Metrics
	logger   *slog.Logger
	locale   language.Tag
	pageSize int

	// Section renderers, replaceable in tests.
	renderSections func([]model.InstrumentRecord) []model.HotSection
	renderTable    func(*model.Batch, tableQuery) (dto.TableRes, error)
}

func NewUsecase(
	ctrl Controller,
	details DetailLookup,
	locale language.Tag,
	pageSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize < 1 {
		pageSize = table.DefaultPageSize
	}
	return &Usecase{
		ctrl:           ctrl,
		details:        details,
		metrics:        m,
		logger:         logger,
		locale:         locale,
		pageSize:       pageSize,
		renderSections: sections.Compute,
		renderTable:    buildTable,
	}
}

func (uc *Usecase) Tags() []dto.TagRes {
	out := make([]dto.TagRes, 0, len(model.AllTags))
	for _, t := range model.AllTags {
		kind := "all"
		switch {
		case t.IsCategory():
			kind = "category"
		case t.IsExchange():
			kind = "exchange"
		}
		out = append(out, dto.TagRes{Tag: t, Label: t.Label(), Kind: kind})
	}
	return out
}

func (uc *Usecase) State() viewstate.Summary {
	return uc.ctrl.State().Summary()
}

func (uc *Usecase) SetTag(tag string) (viewstate.Summary, error) {
	t, err := model.ParseTag(tag)
	if err != nil {
		return viewstate.Summary{}, apperr.BadRequest(err)
	}
	if err := uc.ctrl.SetTag(t); err != nil {
		return viewstate.Summary{}, err
	}
	return uc.ctrl.State().Summary(), nil
}

func (uc *Usecase) Records(ctx context.Context, q dto.RecordsQuery) (dto.TableRes, error) {
	tag, tq, err := uc.parseQuery(q)
	if err != nil {
		return dto.TableRes{}, err
	}
	b, err := uc.ctrl.Records(ctx, tag)
	if err != nil {
		return dto.TableRes{}, err
	}
	return uc.renderTable(b, tq)
}

func (uc *Usecase) HotSections(ctx context.Context, tag string) (dto.HotSectionsRes, error) {
	t, err := uc.resolveTag(tag)
	if err != nil {
		return dto.HotSectionsRes{}, err
	}
	b, err := uc.ctrl.Records(ctx, t)
	if err != nil {
		return dto.HotSectionsRes{}, err
	}
	return uc.hotSections(b), nil
}

// Dashboard renders the hot sections and the table page for one batch.
// Each part runs inside its own boundary so a failure in one still returns
// the other.
func (uc *Usecase) Dashboard(ctx context.Context, q dto.RecordsQuery) (dto.DashboardRes, error) {
	tag, tq, err := uc.parseQuery(q)
	if err != nil {
		return dto.DashboardRes{}, err
	}
	b, err := uc.ctrl.Records(ctx, tag)
	if err != nil {
		return dto.DashboardRes{}, err
	}

	res := dto.DashboardRes{Tag: tag}

	hot := boundary.New("hot-sections", uc.logger)
	hot.Run(func() error {
		res.HotSections = dto.SectionRes{OK: true, Data: uc.hotSections(b)}
		return nil
	})
	if hot.Failed() {
		res.HotSections = dto.SectionRes{Error: hot.Err().Error()}
	}

	tbl := boundary.New("table", uc.logger)
	tbl.Run(func() error {
		page, err := uc.renderTable(b, tq)
		if err != nil {
			return err
		}
		res.Table = dto.SectionRes{OK: true, Data: page}
		return nil
	})
	if tbl.Failed() {
		res.Table = dto.SectionRes{Error: tbl.Err().Error()}
	}

	return res, nil
}

func (uc *Usecase) Instrument(ctx context.Context, code, mode string) (detail.View, error) {
	if code == "" {
		return detail.View{}, apperr.ErrMissingCode
	}
	kind, err := model.ParseChartKind(mode)
	if err != nil {
		return detail.View{}, apperr.BadRequest(err)
	}
	v, err := uc.details.Lookup(ctx, code, kind)
	if err != nil {
		return detail.View{}, err
	}
	if v.Detail != nil {
		d := *v.Detail
		d.Record = dto.ClampRecord(d.Record)
		v.Detail = &d
	}
	return v, nil
}

func (uc *Usecase) Health() dto.HealthRes {
	return dto.HealthRes{
		Status:  "ok",
		Version: version.Get(),
		Metrics: uc.metrics.Snapshot(),
	}
}

func (uc *Usecase) hotSections(b *model.Batch) dto.HotSectionsRes {
	return dto.HotSectionsRes{
		Tag:      b.Tag,
		BatchID:  b.ID,
		Sections: dto.ClampSections(uc.renderSections(b.Records)),
	}
}

// resolveTag parses tag, defaulting to the controller's selection.
func (uc *Usecase) resolveTag(tag string) (model.Tag, error) {
	if tag == "" {
		return uc.ctrl.Tag(), nil
	}
	t, err := model.ParseTag(tag)
	if err != nil {
		return "", apperr.BadRequest(err)
	}
	return t, nil
}
