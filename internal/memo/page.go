package memo

import (
	"encoding/json"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// Window is a validated pagination request. Limit zero means "everything
// from Offset onward".
type Window struct {
	Limit  int
	Offset int
}

// NewWindow validates limit and offset before any lookup executes.
func NewWindow(limit, offset int) (Window, error) {
	if limit < 0 {
		return Window{}, toolerr.Validationf("limit must be a non-negative integer, got %d", limit)
	}
	if offset < 0 {
		return Window{}, toolerr.Validationf("offset must be a non-negative integer, got %d", offset)
	}
	return Window{Limit: limit, Offset: offset}, nil
}

// Paginate slices items to the window. Slicing never fails: an out-of-range
// offset yields an empty slice, and a limit past the end is clamped.
func Paginate[T any](items []T, w Window) []T {
	if w.Offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if w.Limit > 0 && w.Offset+w.Limit < end {
		end = w.Offset + w.Limit
	}

	return items[w.Offset:end]
}

// Limit is the applied limit echoed back in a response envelope. The zero
// value means unlimited and marshals as the string "all".
type Limit int

// MarshalJSON implements json.Marshaler.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l <= 0 {
		return json.Marshal("all")
	}
	return json.Marshal(int(l))
}

// Page is the response envelope for a paginated selection: the selected
// items, the page size, the total before slicing, and the window actually
// applied.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Count  int   `json:"count"`
	Total  int   `json:"total"`
	Limit  Limit `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage slices full to the window and wraps the selection in an envelope.
func NewPage[T any](full []T, w Window) Page[T] {
	items := Paginate(full, w)
	return Page[T]{
		Items:  items,
		Count:  len(items),
		Total:  len(full),
		Limit:  Limit(w.Limit),
		Offset: w.Offset,
	}
}
