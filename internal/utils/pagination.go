package utils

import "strconv"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is the page/limit/skip triple derived from query parameters.
type Page struct {
	Page  int64
	Limit int64
	Skip  int64
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
}

// ParsePage reads raw "page" and "limit" values. Garbage falls back to defaults.
func ParsePage(rawPage, rawLimit string) Page {
	page, err := strconv.ParseInt(rawPage, 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(rawLimit, 10, 64)
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

func (p Page) Of(total int64) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}
