package pagination

import "gorm.io/gorm"

// Pagination is bound from list query strings.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=50" validate:"gte=1,lte=250"`
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 50
	}
	if p.PageSize > 250 {
		p.PageSize = 250
	}
	return p
}

// Apply adds LIMIT/OFFSET to the statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	p = p.normalized()
	return stmt.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}

// PageInfo describes the returned window.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}

// BuildPageInfo assembles the window descriptor for a counted list.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	p = p.normalized()
	return PageInfo{Page: p.Page, PageSize: p.PageSize, TotalCount: total}
}
