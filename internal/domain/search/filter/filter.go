package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/docquery/internal/domain"
)

// DateLayout is the accepted date format for range bounds.
const DateLayout = "2006-01-02"

// Page size defaults.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Bounds limits the page size a filter accepts.
type Bounds struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultBounds returns the built-in page size bounds.
func DefaultBounds() Bounds {
	return Bounds{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

// Params is the raw, unvalidated filter input.
type Params struct {
	Term              string
	Country           string
	Language          string
	DocumentType      string
	MajorDocumentType string
	StartDate         *time.Time
	EndDate           *time.Time
	Fields            []string
	PageSize          int
	Offset            int
}

// Filter is a validated search filter. The zero value of every optional
// field means "no constraint".
type Filter struct {
	term              string
	country           string
	language          string
	documentType      string
	majorDocumentType string
	startDate         *time.Time
	endDate           *time.Time
	fields            []string
	pageSize          int
	offset            int
}

// New validates params and creates a Filter.
// PageSize 0 selects b.DefaultPageSize; values outside [1, b.MaxPageSize] are rejected.
func New(p Params, b Bounds) (Filter, error) {
	if b.DefaultPageSize <= 0 {
		b.DefaultPageSize = DefaultPageSize
	}
	if b.MaxPageSize <= 0 {
		b.MaxPageSize = MaxPageSize
	}

	size := p.PageSize
	if size == 0 {
		size = b.DefaultPageSize
	}
	if size < 1 || size > b.MaxPageSize {
		return Filter{}, domain.NewInvalidInput("rows", strconv.Itoa(p.PageSize),
			"must be between 1 and "+strconv.Itoa(b.MaxPageSize))
	}
	if p.Offset < 0 {
		return Filter{}, domain.NewInvalidInput("os", strconv.Itoa(p.Offset), "must be non-negative")
	}
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return Filter{}, domain.NewInvalidInput("strdate", p.StartDate.Format(DateLayout),
			"must not be after enddate "+p.EndDate.Format(DateLayout))
	}

	return Filter{
		term:              strings.TrimSpace(p.Term),
		country:           strings.TrimSpace(p.Country),
		language:          strings.TrimSpace(p.Language),
		documentType:      strings.TrimSpace(p.DocumentType),
		majorDocumentType: strings.TrimSpace(p.MajorDocumentType),
		startDate:         p.StartDate,
		endDate:           p.EndDate,
		fields:            cleanFields(p.Fields),
		pageSize:          size,
		offset:            p.Offset,
	}, nil
}

// ParseDate parses a YYYY-MM-DD value. Empty input returns nil.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, domain.NewInvalidInput(field, value, "expected YYYY-MM-DD")
	}
	return &t, nil
}

// SplitFields splits a comma separated field list.
func SplitFields(fl string) []string {
	if strings.TrimSpace(fl) == "" {
		return nil
	}
	return strings.Split(fl, ",")
}

// Term returns the free-text term.
func (f Filter) Term() string { return f.term }

// Country returns the exact country filter.
func (f Filter) Country() string { return f.country }

// Language returns the exact language filter.
func (f Filter) Language() string { return f.language }

// DocumentType returns the exact document type filter.
func (f Filter) DocumentType() string { return f.documentType }

// MajorDocumentType returns the exact major document type filter.
func (f Filter) MajorDocumentType() string { return f.majorDocumentType }

// StartDate returns the inclusive lower date bound.
func (f Filter) StartDate() *time.Time { return f.startDate }

// EndDate returns the inclusive upper date bound.
func (f Filter) EndDate() *time.Time { return f.endDate }

// Fields returns the requested projection names.
func (f Filter) Fields() []string { return f.fields }

// PageSize returns the page size.
func (f Filter) PageSize() int { return f.pageSize }

// Offset returns the zero-based row offset.
func (f Filter) Offset() int { return f.offset }

func cleanFields(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
