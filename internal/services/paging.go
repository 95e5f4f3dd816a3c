package services

import "shopdash/internal/validate"

// Paging is a 1-based page request.
type Paging struct {
	Page  int
	Limit int
}

// NewPaging clamps page to >= 1 and limit to 1..100 (10 when unset).
func NewPaging(page, limit int) Paging {
	if page < 1 {
		page = validate.DefaultPage
	}
	if limit < 1 {
		limit = validate.DefaultLimit
	}
	if limit > validate.MaxLimit {
		limit = validate.MaxLimit
	}
	return Paging{Page: page, Limit: limit}
}

func (p Paging) Offset() int { return (p.Page - 1) * p.Limit }

// PageInfo is the paging block of every list response.
type PageInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func (p Paging) Info(total int) PageInfo {
	return PageInfo{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}
