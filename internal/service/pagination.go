package service

import (
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest carries zero-based pagination parameters from the query string.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// Normalize clamps page and size into their valid ranges.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// sortColumns whitelists the sortable tenant fields and maps them to columns.
var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"subdomain": "subdomain",
	"active":    "is_active",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// OrderClause converts a "field,dir" sort parameter into a safe ORDER BY
// clause. Unknown fields fall back to id ascending.
func (p PageRequest) OrderClause() string {
	field, dir, _ := strings.Cut(p.Sort, ",")
	column, ok := sortColumns[field]
	if !ok {
		return "id"
	}
	if strings.EqualFold(dir, "desc") {
		return column + " DESC"
	}
	return column
}

// totalPages computes the page count for a total row count.
func totalPages(total int64, size int) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return pages
}
