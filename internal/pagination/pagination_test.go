package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/white/session-tracker/internal/pagination"
)

func TestNew_EmptyCollectionHasZeroPages(t *testing.T) {
	meta := pagination.New(0, 1, 10)

	assert.Equal(t, 0, meta.TotalPages)
	assert.Equal(t, int64(0), meta.TotalItems)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 10, meta.PerPage)
}

func TestNew_CeilingDivision(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		perPage    int
		want       int
	}{
		{"exact multiple", 20, 10, 2},
		{"one over", 21, 10, 3},
		{"single item", 1, 10, 1},
		{"per page of one", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.New(tt.totalItems, 1, tt.perPage)
			assert.Equal(t, tt.want, meta.TotalPages)
		})
	}
}

// The pagination law: summing item counts across all pages equals the
// total, and the last page holds the remainder (or a full page when the
// total divides evenly).
func TestWindow_PaginationLaw(t *testing.T) {
	for totalItems := 0; totalItems <= 30; totalItems++ {
		for perPage := 1; perPage <= 7; perPage++ {
			meta := pagination.New(int64(totalItems), 1, perPage)

			sum := 0
			for page := 1; page <= meta.TotalPages; page++ {
				start, end := pagination.Window(totalItems, page, perPage)
				require.LessOrEqual(t, start, end)
				sum += end - start
			}
			require.Equal(t, totalItems, sum,
				"totalItems=%d perPage=%d", totalItems, perPage)

			if meta.TotalPages > 0 {
				start, end := pagination.Window(totalItems, meta.TotalPages, perPage)
				wantLast := totalItems % perPage
				if wantLast == 0 {
					wantLast = perPage
				}
				require.Equal(t, wantLast, end-start,
					"last page size for totalItems=%d perPage=%d", totalItems, perPage)
			}
		}
	}
}

func TestWindow_OutOfRangePageIsEmpty(t *testing.T) {
	start, end := pagination.Window(3, 5, 10)

	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestParseParams_Defaults(t *testing.T) {
	page, perPage := pagination.ParseParams(url.Values{})

	assert.Equal(t, pagination.DefaultPage, page)
	assert.Equal(t, pagination.DefaultPerPage, perPage)
}

func TestParseParams_MalformedValuesFallBack(t *testing.T) {
	q := url.Values{"page": {"abc"}, "per_page": {"-5"}}
	page, perPage := pagination.ParseParams(q)

	assert.Equal(t, pagination.DefaultPage, page)
	assert.Equal(t, pagination.DefaultPerPage, perPage)
}

func TestParseParams_CapsPerPage(t *testing.T) {
	q := url.Values{"page": {"3"}, "per_page": {"5000"}}
	page, perPage := pagination.ParseParams(q)

	assert.Equal(t, 3, page)
	assert.Equal(t, pagination.MaxPerPage, perPage)
}
