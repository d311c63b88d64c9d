package mood

import (
	"math"
	"time"
)

// Filter narrows a List call. Nil fields are not applied.
type Filter struct {
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) validate() error {
	var verr ValidationError
	if f.Category != nil && !f.Category.Valid() {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   "category",
			Message: "category must be one of: " + categoryList(),
		})
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

// Page is one bounded slice of an owner's records, newest first.
type Page struct {
	Items      []Record `json:"items"`
	TotalCount int64    `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
	HasNext    bool     `json:"has_next"`
	HasPrev    bool     `json:"has_prev"`
}

// NewPage fills in the derived pagination fields. items may be nil.
func NewPage(items []Record, total int64, page, pageSize int) Page {
	if items == nil {
		items = []Record{}
	}
	pages := totalPages(total, pageSize)
	return Page{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(pages),
		HasNext:    int64(page) < pages,
		HasPrev:    page > 1,
	}
}

func totalPages(total int64, pageSize int) int64 {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// offset is the number of records before page. It saturates at math.MaxInt
// instead of wrapping, which is past the end of any result set.
func offset(page, pageSize int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
