package helpers

import (
	"net/http"
	"strconv"

	"eventregistry/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParsePagination reads limit and offset from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	return domain.PaginationParams{Limit: limit, Offset: offset}
}
