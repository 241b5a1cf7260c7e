package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/docquery/internal/domain"
)

// run is one positioned text show on a page.
type run struct {
	x, y int
	s    string
}

// lines places each string on its own row, top to bottom.
func lines(ss ...string) []run {
	out := make([]run, len(ss))
	for i, s := range ss {
		out[i] = run{x: 72, y: 720 - 20*i, s: s}
	}
	return out
}

// buildPDF writes a minimal uncompressed PDF with one Helvetica font.
func buildPDF(pages ...[]run) []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	kids := make([]string, 0, len(pages))
	for _, runs := range pages {
		var cs strings.Builder
		cs.WriteString("BT\n/F1 12 Tf\n")
		for _, r := range runs {
			fmt.Fprintf(&cs, "1 0 0 1 %d %d Tm\n(%s) Tj\n", r.x, r.y, r.s)
		}
		cs.WriteString("ET")

		pageObj := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", cs.Len(), cs.String()),
		)
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

// words returns n distinct words tagged with prefix.
func words(prefix string, n int) string {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(ws, " ")
}

func TestNew_DefaultBudget(t *testing.T) {
	if got := New(0).budget; got != DefaultTokenBudget {
		t.Errorf("Budget = %d, want %d", got, DefaultTokenBudget)
	}
	if got := New(250).budget; got != 250 {
		t.Errorf("Budget = %d, want 250", got)
	}
}

func TestExtract_AllPagesUnderBudget(t *testing.T) {
	data := buildPDF(
		lines("Annual report", "Economic outlook"),
		lines("Methodology section"),
		lines("Results and conclusions"),
	)

	res, err := New(0).Extract(context.Background(), data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalPages != 3 || res.Pages != 3 {
		t.Errorf("pages = %d/%d, want 3/3", res.Pages, res.TotalPages)
	}
	if res.Truncated {
		t.Error("unexpected truncation")
	}
	want := "Annual report\nEconomic outlook\nMethodology section\nResults and conclusions"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Words != 9 {
		t.Errorf("Words = %d, want 9", res.Words)
	}
}

func TestExtract_StopsAfterPageCrossingBudget(t *testing.T) {
	data := buildPDF(
		lines(words("a", 10)),
		lines(words("b", 10)),
		lines(words("c", 10)),
	)

	res, err := New(1000).Extract(context.Background(), data, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	if !res.Truncated {
		t.Error("expected truncation")
	}
	if !strings.Contains(res.Text, "b9") {
		t.Error("page crossing the budget must be included")
	}
	if strings.Contains(res.Text, "c0") {
		t.Error("pages after the budget must not be read")
	}
	if res.Text == "" {
		t.Error("expected a non-empty prefix")
	}
}

func TestExtract_BudgetExactlyMetKeepsReading(t *testing.T) {
	data := buildPDF(lines(words("a", 5)), lines(words("b", 5)))

	res, err := New(0).Extract(context.Background(), data, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2: stop only once the count exceeds the budget", res.Pages)
	}
}

func TestExtract_ReadingOrder(t *testing.T) {
	// Content stream emits the bottom row first and the right-hand word first.
	data := buildPDF([]run{
		{x: 72, y: 600, s: "third"},
		{x: 300, y: 700, s: "second"},
		{x: 72, y: 700, s: "first"},
	})

	res, err := New(0).Extract(context.Background(), data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "first second\nthird" {
		t.Errorf("Text = %q, want %q", res.Text, "first second\nthird")
	}
}

func TestExtract_ZeroPages(t *testing.T) {
	res, err := New(0).Extract(context.Background(), buildPDF(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "" || res.TotalPages != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestExtract_Malformed(t *testing.T) {
	valid := buildPDF(lines("hello world"))
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("<html><body>Access denied</body></html>")},
		{"truncated", valid[:len(valid)/2]},
		{"garbage body", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0xff}, 200)...)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(0).Extract(context.Background(), tc.data, 0)
			if !errors.Is(err, domain.ErrExtraction) {
				t.Fatalf("expected ErrExtraction, got %v", err)
			}
		})
	}
}

func TestExtract_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).Extract(ctx, buildPDF(lines("hello")), 0)
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
