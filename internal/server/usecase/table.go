package usecase

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/server/apperr"
	"github.com/rickgao/voldash/internal/server/dto"
	"github.com/rickgao/voldash/internal/table"
)

// tableQuery is a validated table request.
type tableQuery struct {
	field    string
	dir      *table.Direction
	page     *int
	pageSize *int
	locale   language.Tag
	defSize  int
}

// parseQuery validates the tag, sort and pagination parameters. A sort
// without an order clears the sort, leaving records in source order.
func (uc *Usecase) parseQuery(q dto.RecordsQuery) (model.Tag, tableQuery, error) {
	tag, err := uc.resolveTag(q.Tag)
	if err != nil {
		return "", tableQuery{}, err
	}

	tq := tableQuery{
		page:     q.Page,
		pageSize: q.PageSize,
		locale:   uc.locale,
		defSize:  uc.pageSize,
	}

	switch {
	case q.Sort == "" && q.Order != "":
		return "", tableQuery{}, apperr.ErrOrderWithoutSort
	case q.Sort != "":
		if !table.Column(q.Sort) {
			return "", tableQuery{}, apperr.UnknownSortField(q.Sort)
		}
		tq.field = q.Sort
		if q.Order != "" {
			d, err := table.ParseDirection(q.Order)
			if err != nil {
				return "", tableQuery{}, apperr.BadRequest(err)
			}
			tq.dir = &d
		}
	}

	if (tq.page != nil && *tq.page < 1) || (tq.pageSize != nil && *tq.pageSize < 1) {
		return "", tableQuery{}, apperr.BadRequest(table.ErrInvalidPage)
	}

	return tag, tq, nil
}

// buildTable renders one page of b through a fresh table view.
func buildTable(b *model.Batch, q tableQuery) (dto.TableRes, error) {
	v := table.NewView(q.locale, q.defSize)
	v.ResetForTag(b.Tag)
	v.Sort(q.field, q.dir)
	if err := v.Paginate(q.page, q.pageSize); err != nil {
		if errors.Is(err, table.ErrInvalidPage) {
			return dto.TableRes{}, apperr.BadRequest(err)
		}
		return dto.TableRes{}, err
	}

	field, dir := v.SortField()
	return dto.NewTableRes(b, field, dir, v.Rows(b.Records)), nil
}
