// Package view derives the visible reservation table from the loaded list:
// filter, then sort, then paginate. Every function here is pure; the same
// input always yields the same slice.
package view

import (
	"slices"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/shared"
	"vcardops/shared/constant"
)

const (
	DefaultPageSize = 10

	pageWindowDelta = 2
)

type Query struct {
	Filter   Filter
	Sort     Sort
	Page     int
	PageSize int
}

// DefaultQuery is the table state on first load: newest check-in first.
func DefaultQuery() Query {
	return Query{
		Filter:   Filter{Status: constant.StatusAll},
		Sort:     Sort{Key: KeyCheckInDate, Direction: Desc},
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// PageLink is one entry of the pager. Ellipsis entries carry no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type Result struct {
	Rows       []dto.Reservation `json:"rows"`
	TotalItems int               `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	From       int               `json:"from"`
	To         int               `json:"to"`
	Pages      []PageLink        `json:"pages"`
}

// Compute filters, sorts and paginates rows. rows is not modified.
func Compute(rows []dto.Reservation, q Query) Result {
	return Paginate(Apply(rows, q.Filter, q.Sort), q.Page, q.PageSize)
}

// Apply returns the filtered and sorted list before pagination.
func Apply(rows []dto.Reservation, filter Filter, sort Sort) []dto.Reservation {
	return Ordered(Filtered(rows, filter), sort)
}

// Paginate slices one page out of rows. The page is clamped into
// [1, TotalPages] so a shrunken list never yields an empty page past the end.
func Paginate(rows []dto.Reservation, page, pageSize int) Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(rows)
	totalPages := shared.CalculateTotalPage(total, pageSize)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	visible := make([]dto.Reservation, end-start)
	copy(visible, rows[start:end])

	res := Result{
		Rows:       visible,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
		Pages:      pageWindow(page, totalPages),
	}

	if total > 0 {
		res.From = start + 1
		res.To = end
	}

	return res
}

// pageWindow lists the first and last page, the pages within
// pageWindowDelta of current, and an ellipsis for each hidden run.
func pageWindow(current, totalPages int) []PageLink {
	links := []PageLink{{Number: 1}}
	if totalPages <= 1 {
		return links
	}

	left := max(2, current-pageWindowDelta)
	right := min(totalPages-1, current+pageWindowDelta)

	if left > 2 {
		links = append(links, PageLink{Ellipsis: true})
	}

	for number := left; number <= right; number++ {
		links = append(links, PageLink{Number: number})
	}

	if right < totalPages-1 {
		links = append(links, PageLink{Ellipsis: true})
	}

	return append(links, PageLink{Number: totalPages})
}

// ValidPageSize reports whether size is one of the offered page sizes.
func ValidPageSize(size int) bool {
	return slices.Contains(constant.AllowedPageSizes, size)
}
