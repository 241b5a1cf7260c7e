package summary

import "github.com/kailas-cloud/docquery/internal/domain/llm"

// Source tells where the summarized text came from.
type Source string

// Content sources.
const (
	SourcePDF      Source = "pdf"
	SourceAbstract Source = "abstract"
)

// Request asks for a summary of the documents in IDs.
type Request struct {
	IDs     []string
	Model   string
	Options llm.Options
}

// Result is a generated summary.
type Result struct {
	DocumentID string
	Text       string
	ElapsedMs  int64
	Model      llm.Model
	Source     Source
}
