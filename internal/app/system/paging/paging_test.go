package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/teamnotes/internal/app/system/paging"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/?"+tc.query, nil)
		if got := paging.ParsePage(r); got != tc.want {
			t.Errorf("ParsePage(%q): got %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", paging.DefaultPageSize},
		{"limit=50", 50},
		{"limit=0", paging.DefaultPageSize},
		{"limit=9999", paging.MaxPageSize},
		{"limit=abc", paging.DefaultPageSize},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/?"+tc.query, nil)
		if got := paging.ParseLimit(r); got != tc.want {
			t.Errorf("ParseLimit(%q): got %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 10, 3},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := paging.PageCount(tc.total, tc.pageSize); got != tc.want {
			t.Errorf("PageCount(%d, %d): got %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}
