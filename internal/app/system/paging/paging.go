// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// PageSize is the fixed number of rows per page for document lists.
// It is part of the external contract with API clients.
const PageSize = 20

// ParsePage extracts the zero-based "page" query parameter.
// Returns 0 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Skip returns the number of rows to skip for the given zero-based page.
func Skip(page int) int64 {
	return int64(page) * PageSize
}

// Pages returns how many pages are needed for total rows.
func Pages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + PageSize - 1) / PageSize)
}
