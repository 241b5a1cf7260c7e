// Package pdftext extracts a word-budgeted plain text prefix from PDF documents.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/metrics"
)

// DefaultTokenBudget is the word ceiling used when a caller passes none.
const DefaultTokenBudget = 1000

// Result is the extracted text and how much of the document produced it.
type Result struct {
	Text       string
	Pages      int
	TotalPages int
	Words      int
	Truncated  bool
}

// Extractor reads pages in order until the running word count exceeds the budget.
type Extractor struct {
	budget int
}

// New creates an extractor. A non-positive budget selects DefaultTokenBudget.
func New(budget int) *Extractor {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	return &Extractor{budget: budget}
}

// Extract extracts text from in-memory PDF bytes.
func (e *Extractor) Extract(ctx context.Context, data []byte, budget int) (Result, error) {
	return e.ExtractFrom(ctx, bytes.NewReader(data), int64(len(data)), budget)
}

// ExtractFrom extracts text from a PDF of the given size.
// A non-positive budget selects the extractor's default.
func (e *Extractor) ExtractFrom(ctx context.Context, r io.ReaderAt, size int64, budget int) (res Result, err error) {
	if budget <= 0 {
		budget = e.budget
	}

	page := 0
	defer func() {
		// the parser panics on some malformed inputs
		if rec := recover(); rec != nil {
			res = Result{}
			err = &domain.ExtractionError{Page: page, Err: fmt.Errorf("parser panic: %v", rec)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return Result{}, &domain.ExtractionError{Err: err}
	}

	res.TotalPages = reader.NumPage()
	var sb strings.Builder
	for page = 1; page <= res.TotalPages; page++ {
		if err := ctx.Err(); err != nil {
			return Result{}, &domain.ExtractionError{Page: page, Err: err}
		}

		p := reader.Page(page)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			return Result{}, &domain.ExtractionError{Page: page, Err: err}
		}
		sb.WriteString(text)
		sb.WriteByte('\n')

		res.Pages = page
		res.Words += len(strings.Fields(text))
		if res.Words > budget {
			res.Truncated = page < res.TotalPages
			break
		}
	}

	res.Text = strings.TrimSpace(sb.String())
	metrics.PDFExtractPages.Observe(float64(res.Pages))
	metrics.PDFExtractWords.Observe(float64(res.Words))
	return res, nil
}

// pageText renders a page row by row, top to bottom, each row left to right.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("read text rows: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if line := rowText(row.Content); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func rowText(content pdf.TextHorizontal) string {
	words := make([]pdf.Text, 0, len(content))
	for _, t := range content {
		if t.S != "" {
			words = append(words, t)
		}
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].X < words[j].X })

	var sb strings.Builder
	for i, w := range words {
		if i > 0 && needsSpace(words[i-1], w) {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.S)
	}
	return strings.TrimSpace(sb.String())
}

// needsSpace reports whether a visual gap separates prev and next.
func needsSpace(prev, next pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	if prev.W <= 0 {
		return next.X > prev.X
	}
	return next.X-(prev.X+prev.W) > prev.FontSize*0.15
}

