package pagination

import "gorm.io/gorm"

// PageRequest holds limit/offset parameters parsed from query strings.
type PageRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults fills in default values when limit is not provided.
func (p *PageRequest) Defaults() {
	if p.Limit == 0 {
		p.Limit = 10
	}
}

// PageResponse wraps a paginated list of items with the total row count,
// which is independent of limit/offset.
type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, total int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{Data: data, Total: total}
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(req.Limit).Offset(req.Offset)
	}
}
