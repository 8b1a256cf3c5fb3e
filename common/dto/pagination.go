package dto

// Pagination carries the page window of a search request. A zero value
// means "first page of 20".
type Pagination struct {
	PageIndex int `json:"pageIndex" form:"pageIndex"`
	PageSize  int `json:"pageSize" form:"pageSize"`
}

func (p Pagination) Normalize() Pagination {
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p Pagination) Skip() int64 {
	p = p.Normalize()
	return int64((p.PageIndex - 1) * p.PageSize)
}

func (p Pagination) Limit() int64 {
	return int64(p.Normalize().PageSize)
}
