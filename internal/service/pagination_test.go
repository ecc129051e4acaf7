package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{name: "defaults", in: PageRequest{}, wantPage: 0, wantSize: 20},
		{name: "negative page clamps to zero", in: PageRequest{Page: -3, Size: 10}, wantPage: 0, wantSize: 10},
		{name: "oversized page size clamps to max", in: PageRequest{Page: 2, Size: 500}, wantPage: 2, wantSize: 100},
		{name: "zero size takes default", in: PageRequest{Page: 1}, wantPage: 1, wantSize: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.Size)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 0, Size: 20}.Offset())
	assert.Equal(t, 40, PageRequest{Page: 2, Size: 20}.Offset())
}

func TestPageRequest_OrderClause(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{name: "empty falls back to id", sort: "", want: "id"},
		{name: "plain field", sort: "name", want: "name"},
		{name: "descending", sort: "name,desc", want: "name DESC"},
		{name: "ascending explicit", sort: "subdomain,asc", want: "subdomain"},
		{name: "camelCase field maps to column", sort: "createdAt,desc", want: "created_at DESC"},
		{name: "active maps to is_active", sort: "active", want: "is_active"},
		{name: "unknown field falls back to id", sort: "password,desc", want: "id"},
		{name: "injection attempt falls back to id", sort: "name; DROP TABLE tenants", want: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageRequest{Sort: tt.sort}.OrderClause())
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 20))
	assert.Equal(t, 1, totalPages(1, 20))
	assert.Equal(t, 1, totalPages(20, 20))
	assert.Equal(t, 2, totalPages(21, 20))
	assert.Equal(t, 3, totalPages(41, 20))
}
