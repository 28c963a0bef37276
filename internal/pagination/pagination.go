// Package pagination holds the page/per_page arithmetic shared by every
// paginated endpoint, so the session view and the activity view cannot
// drift apart.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	// MaxPerPage caps per_page to keep response sizes bounded.
	MaxPerPage = 100
)

// Meta describes a windowed view over a collection.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
}

// New builds pagination metadata. An empty collection has zero pages;
// otherwise total pages is the ceiling of totalItems / perPage.
func New(totalItems int64, page, perPage int) Meta {
	totalPages := 0
	if totalItems > 0 {
		totalPages = int((totalItems + int64(perPage) - 1) / int64(perPage))
	}

	return Meta{
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
	}
}

// Window returns the half-open [start, end) slice bounds for the given
// page. Out-of-range pages clamp to an empty window rather than error.
func Window(totalItems, page, perPage int) (int, int) {
	start := (page - 1) * perPage
	if start >= totalItems {
		return 0, 0
	}

	end := start + perPage
	if end > totalItems {
		end = totalItems
	}

	return start, end
}

// Skip returns the number of items to skip before the given page, for
// query paths that paginate against a durable count.
func Skip(page, perPage int) int64 {
	return int64(page-1) * int64(perPage)
}

// ParseParams reads page and per_page from query parameters, applying
// defaults for absent or malformed values and capping per_page.
func ParseParams(query url.Values) (page, perPage int) {
	page = DefaultPage
	if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 0 {
		page = v
	}

	perPage = DefaultPerPage
	if v, err := strconv.Atoi(query.Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return page, perPage
}
