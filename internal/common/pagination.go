package common

import "fmt"

type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Limit int `json:"limit"`
}

func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}

	return &Pagination{Page: page, Pages: pages, Total: total, Limit: limit}
}

// ValidatePage checks page and limit query values. limit may not exceed maxLimit.
func ValidatePage(v *Validator, page, limit, maxLimit int) {
	v.Check(page > 0, "page", "must be greater than zero")
	v.Check(page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(limit > 0, "limit", "must be greater than zero")
	v.Check(limit <= maxLimit, "limit", fmt.Sprintf("must be a maximum of %d", maxLimit))
}
