package table

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/rickgao/voldash/internal/model"
)

// DefaultPageSize is the page size of a new View.
const DefaultPageSize = 20

var (
	// ErrMultiSort is returned when more than one sort column is requested.
	ErrMultiSort = errors.New("only one sort column may be active")

	// ErrInvalidPage is returned for a page or page size below 1.
	ErrInvalidPage = errors.New("page and page size must be at least 1")
)

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// SortRequest is one column's requested order. A nil Dir clears the column.
type SortRequest struct {
	Field string
	Dir   *Direction
}

// Page is one rendered slice of the table.
type Page struct {
	Items    []model.InstrumentRecord `json:"items"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
	Total    int                      `json:"total"`
	Pages    int                      `json:"pages"`
}

// View is the sort and pagination state of one table.
type View struct {
	locale   language.Tag
	field    string
	dir      Direction
	page     int
	pageSize int
	tag      model.Tag
}

// NewView creates an unsorted view on page 1. A pageSize below 1 uses
// DefaultPageSize.
func NewView(locale language.Tag, pageSize int) *View {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &View{locale: locale, page: 1, pageSize: pageSize}
}

// SortField returns the active sort column and direction. Both are empty when
// unsorted.
func (v *View) SortField() (string, Direction) {
	return v.field, v.dir
}

// Page returns the current page number.
func (v *View) Page() int { return v.page }

// PageSize returns the current page size.
func (v *View) PageSize() int { return v.pageSize }

// Sort makes field the sole active sort. A nil dir or empty field clears it.
func (v *View) Sort(field string, dir *Direction) {
	if field == "" || dir == nil || *dir == "" {
		v.field, v.dir = "", ""
		return
	}
	v.field, v.dir = field, *dir
}

// SortMany applies a multi-column sort request. Only a single column is
// supported; longer requests are rejected and leave the state unchanged.
func (v *View) SortMany(reqs []SortRequest) error {
	switch len(reqs) {
	case 0:
		v.Sort("", nil)
		return nil
	case 1:
		v.Sort(reqs[0].Field, reqs[0].Dir)
		return nil
	}
	return ErrMultiSort
}

// Paginate applies a pagination change. An explicit page is taken as is; a
// page size change without one returns to page 1.
func (v *View) Paginate(page, pageSize *int) error {
	if (page != nil && *page < 1) || (pageSize != nil && *pageSize < 1) {
		return ErrInvalidPage
	}

	if pageSize != nil && *pageSize != v.pageSize {
		v.pageSize = *pageSize
		if page == nil {
			v.page = 1
		}
	}
	if page != nil {
		v.page = *page
	}
	return nil
}

// ResetForTag clears the sort and returns to page 1 when tag differs from the
// last tag seen. It reports whether a reset happened.
func (v *View) ResetForTag(tag model.Tag) bool {
	if tag == v.tag {
		return false
	}
	v.tag = tag
	v.field, v.dir = "", ""
	v.page = 1
	return true
}

// Rows sorts records by the active column and returns the current page.
func (v *View) Rows(records []model.InstrumentRecord) Page {
	sorted := Sorted(records, v.field, v.dir, v.locale)

	total := len(sorted)
	pages := (total + v.pageSize - 1) / v.pageSize

	start := (v.page - 1) * v.pageSize
	items := []model.InstrumentRecord{}
	if start < total {
		end := min(start+v.pageSize, total)
		items = sorted[start:end]
	}

	return Page{
		Items:    items,
		Page:     v.page,
		PageSize: v.pageSize,
		Total:    total,
		Pages:    pages,
	}
}
