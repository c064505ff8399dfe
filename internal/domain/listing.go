package domain

// SortField names a Customer field that listings may be ordered by.
type SortField string

const (
	SortByID          SortField = "id"
	SortByName        SortField = "name"
	SortBySurname     SortField = "surname"
	SortByEmail       SortField = "email"
	SortByInitials    SortField = "initials"
	SortByMobile      SortField = "mobile"
	SortByLastUpdated SortField = "lastupdated"
)

// SortDirection is the listing order.
type SortDirection int

const (
	Descending SortDirection = -1
	Ascending  SortDirection = 1
)

func (d SortDirection) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ListQuery is the bounded query descriptor consumed by listings.
type ListQuery struct {
	SortField     SortField
	SortDirection SortDirection
	Offset        int
	Limit         int
}

// Page is one slice of a paginated listing.
type Page struct {
	Docs          []Customer `json:"docs"`
	TotalDocs     int64      `json:"totalDocs"`
	Offset        int        `json:"offset"`
	Limit         int        `json:"limit"`
	TotalPages    int        `json:"totalPages"`
	Page          int        `json:"page"`
	PagingCounter int        `json:"pagingCounter"`
	HasPrevPage   bool       `json:"hasPrevPage"`
	HasNextPage   bool       `json:"hasNextPage"`
	PrevPage      *int       `json:"prevPage"`
	NextPage      *int       `json:"nextPage"`
}

// NewPage computes the pagination metadata for docs fetched at offset/limit
// out of total matching documents.
func NewPage(docs []Customer, total int64, offset, limit int) Page {
	if docs == nil {
		docs = []Customer{}
	}
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	page := (offset + limit) / limit

	p := Page{
		Docs:          docs,
		TotalDocs:     total,
		Offset:        offset,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: (page-1)*limit + 1,
	}
	switch {
	case page > 1:
		prev := page - 1
		p.HasPrevPage = true
		p.PrevPage = &prev
	case offset != 0:
		prev := 1
		p.HasPrevPage = true
		p.PrevPage = &prev
	}
	if page < totalPages {
		next := page + 1
		p.HasNextPage = true
		p.NextPage = &next
	}
	return p
}
