package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docquery/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	f, err := New(Params{}, DefaultBounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PageSize() != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", f.PageSize(), DefaultPageSize)
	}
	if f.Offset() != 0 {
		t.Errorf("Offset = %d, want 0", f.Offset())
	}
	if f.Term() != "" || f.Country() != "" || f.StartDate() != nil || f.EndDate() != nil || f.Fields() != nil {
		t.Error("expected unconstrained filter")
	}
}

func TestNew_PageSizeBounds(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"min", 1, false},
		{"max", 100, false},
		{"negative", -1, true},
		{"too large", 101, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Params{PageSize: tc.size}, DefaultBounds())
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				var ie *domain.InvalidInputError
				if !errors.As(err, &ie) || ie.Field != "rows" {
					t.Errorf("expected field rows, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_CustomBounds(t *testing.T) {
	f, err := New(Params{}, Bounds{DefaultPageSize: 3, MaxPageSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PageSize() != 3 {
		t.Errorf("PageSize = %d, want 3", f.PageSize())
	}
	if _, err := New(Params{PageSize: 6}, Bounds{DefaultPageSize: 3, MaxPageSize: 5}); err == nil {
		t.Error("expected error above custom max")
	}
}

func TestNew_NegativeOffset(t *testing.T) {
	_, err := New(Params{Offset: -5}, DefaultBounds())
	var ie *domain.InvalidInputError
	if !errors.As(err, &ie) || ie.Field != "os" {
		t.Fatalf("expected os InvalidInputError, got %v", err)
	}
}

func TestNew_InvertedDateRange(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := New(Params{StartDate: &start, EndDate: &end}, DefaultBounds())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNew_TrimsAndNormalizesFields(t *testing.T) {
	f, err := New(Params{
		Term:    "  water  ",
		Country: " FR ",
		Fields:  []string{" Title", "", "ABSTRACT "},
	}, DefaultBounds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Term() != "water" {
		t.Errorf("Term = %q", f.Term())
	}
	if f.Country() != "FR" {
		t.Errorf("Country = %q", f.Country())
	}
	want := []string{"title", "abstract"}
	if len(f.Fields()) != len(want) {
		t.Fatalf("Fields = %v, want %v", f.Fields(), want)
	}
	for i := range want {
		if f.Fields()[i] != want[i] {
			t.Errorf("Fields[%d] = %q, want %q", i, f.Fields()[i], want[i])
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("strdate", "2020-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.Year() != 2020 {
		t.Fatalf("unexpected date %v", d)
	}

	d, err = ParseDate("strdate", "")
	if err != nil || d != nil {
		t.Fatalf("empty input: got %v, %v", d, err)
	}

	_, err = ParseDate("enddate", "01/02/2020")
	var ie *domain.InvalidInputError
	if !errors.As(err, &ie) || ie.Field != "enddate" {
		t.Fatalf("expected enddate InvalidInputError, got %v", err)
	}
}

func TestSplitFields(t *testing.T) {
	if got := SplitFields(""); got != nil {
		t.Errorf("SplitFields(\"\") = %v, want nil", got)
	}
	if got := SplitFields("id,title"); len(got) != 2 {
		t.Errorf("SplitFields = %v", got)
	}
}
