package pagination

// OffsetRequest represents an offset-based pagination request.
// Pages are numbered from 0.
type OffsetRequest struct {
	Page int `json:"page" query:"pageNumber"`
	Size int `json:"size" query:"size"`
}

func NewOffsetRequest(page, size int) OffsetRequest {
	r := OffsetRequest{Page: page, Size: size}
	r.Normalize()
	return r
}

// Normalize clamps the page to 0 and the size to (0, PageMaxSize]
func (r *OffsetRequest) Normalize() {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}

func (r OffsetRequest) Offset() int {
	return r.Page * r.Size
}
