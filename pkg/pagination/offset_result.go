package pagination

// OffsetResult represents one page of an offset-paginated collection
type OffsetResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	HasMore bool `json:"has_more"`
}

// Paginate cuts the page described by req out of all.
// A page past the end yields an empty, non-nil item slice.
func Paginate[T any](all []T, req OffsetRequest) *OffsetResult[T] {
	req.Normalize()
	total := len(all)

	start := min(req.Offset(), total)
	end := min(start+req.Size, total)

	items := make([]T, end-start)
	copy(items, all[start:end])

	return &OffsetResult[T]{
		Items:   items,
		Total:   total,
		Page:    req.Page,
		Size:    req.Size,
		HasMore: end < total,
	}
}
