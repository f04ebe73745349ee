package dashboard

import (
	"errors"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/internal/domains/reservation/view"
)

var ErrInvalidPageSize = errors.New("page size must be one of 10, 25, 50 or 100")

// Table holds the loaded list and the query the user has built on it.
// Changing the filter or the page size goes back to page 1. Not safe for
// concurrent use; Dashboard serializes access.
type Table struct {
	rows     []dto.Reservation
	query    view.Query
	selected map[int64]struct{}
}

func NewTable() *Table {
	return &Table{
		query:    view.DefaultQuery(),
		selected: make(map[int64]struct{}),
	}
}

// SetRows replaces the list. Selections of rows that are gone are dropped.
func (t *Table) SetRows(rows []dto.Reservation) {
	t.rows = rows
	t.query.Page = 1

	present := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		present[row.ID] = struct{}{}
	}

	for id := range t.selected {
		if _, ok := present[id]; !ok {
			delete(t.selected, id)
		}
	}
}

func (t *Table) Rows() []dto.Reservation {
	return t.rows
}

func (t *Table) Query() view.Query {
	return t.query
}

func (t *Table) SetFilter(filter view.Filter) {
	t.query.Filter = filter
	t.query.Page = 1
}

func (t *Table) SetPageSize(size int) error {
	if !view.ValidPageSize(size) {
		return ErrInvalidPageSize
	}

	t.query.PageSize = size
	t.query.Page = 1

	return nil
}

// SetPage moves to page; out of range values are clamped by the view.
func (t *Table) SetPage(page int) {
	t.query.Page = page
}

func (t *Table) ToggleSort(key view.Key) {
	t.query.Sort = t.query.Sort.Toggle(key)
}

func (t *Table) View() view.Result {
	return view.Compute(t.rows, t.query)
}

func (t *Table) Find(id int64) (dto.Reservation, bool) {
	for _, row := range t.rows {
		if row.ID == id {
			return row, true
		}
	}

	return dto.Reservation{}, false
}

// Patch replaces the row with the same id, reporting whether one existed.
func (t *Table) Patch(res dto.Reservation) bool {
	for i := range t.rows {
		if t.rows[i].ID == res.ID {
			t.rows[i] = res

			return true
		}
	}

	return false
}

func (t *Table) Select(id int64, on bool) {
	if !on {
		delete(t.selected, id)

		return
	}

	if _, ok := t.Find(id); ok {
		t.selected[id] = struct{}{}
	}
}

// SelectPage toggles every row of the visible page.
func (t *Table) SelectPage(on bool) {
	for _, row := range t.View().Rows {
		t.Select(row.ID, on)
	}
}

func (t *Table) ClearSelection() {
	clear(t.selected)
}

// Selected returns the selected rows in the order they are displayed.
func (t *Table) Selected() []dto.Reservation {
	ordered := view.Apply(t.rows, t.query.Filter, t.query.Sort)

	res := make([]dto.Reservation, 0, len(t.selected))
	for _, row := range ordered {
		if _, ok := t.selected[row.ID]; ok {
			res = append(res, row)
		}
	}

	return res
}
