package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/matheusmeigre/docportal/internal/app/system/paging"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"?page=0", 0},
		{"?page=3", 3},
		{"?page=-1", 0},
		{"?page=abc", 0},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/documents"+tt.query, nil)
		if got := paging.ParsePage(r); got != tt.want {
			t.Errorf("ParsePage(%q): got %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestSkip(t *testing.T) {
	if got := paging.Skip(0); got != 0 {
		t.Errorf("Skip(0): got %d, want 0", got)
	}
	if got := paging.Skip(2); got != 2*paging.PageSize {
		t.Errorf("Skip(2): got %d, want %d", got, 2*paging.PageSize)
	}
}

func TestPages(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{0, 0},
		{1, 1},
		{paging.PageSize, 1},
		{paging.PageSize + 1, 2},
		{5 * paging.PageSize, 5},
	}

	for _, tt := range tests {
		if got := paging.Pages(tt.total); got != tt.want {
			t.Errorf("Pages(%d): got %d, want %d", tt.total, got, tt.want)
		}
	}
}
