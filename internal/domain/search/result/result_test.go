package result

import (
	"testing"

	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
)

func TestPage(t *testing.T) {
	tests := []struct {
		pageSize, offset, want int
	}{
		{10, 0, 1},
		{10, 9, 1},
		{10, 10, 2},
		{10, 20, 3},
		{3, 7, 3},
		{0, 50, 1},
	}
	for _, tc := range tests {
		r := New(100, nil, tc.pageSize, tc.offset)
		if got := r.Page(); got != tc.want {
			t.Errorf("Page(size=%d, offset=%d) = %d, want %d", tc.pageSize, tc.offset, got, tc.want)
		}
	}
}

func TestAccessors(t *testing.T) {
	docs := []domdoc.Document{domdoc.Reconstruct(domdoc.Attributes{ID: "1"})}
	r := New(15, docs, 10, 0)
	if r.Total() != 15 {
		t.Errorf("Total = %d", r.Total())
	}
	if len(r.Documents()) != 1 || r.Documents()[0].ID() != "1" {
		t.Errorf("Documents = %v", r.Documents())
	}
	if r.PageSize() != 10 || r.Offset() != 0 {
		t.Errorf("PageSize/Offset = %d/%d", r.PageSize(), r.Offset())
	}
}
