package summary

import (
	"strings"

	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
)

// SystemInstruction is the fixed summarization instruction.
const SystemInstruction = "You are a helpful assistant that creates comprehensive yet concise summaries of documents. " +
	"Focus on the main points, key findings, and important conclusions. " +
	"If the document appears to be a report or research paper, include methodology and results."

// documentText joins title, abstract (when present) and content with blank lines.
func documentText(doc *domdoc.Document) string {
	parts := []string{"Title: " + doc.Title()}
	if doc.HasAbstract() {
		parts = append(parts, "Abstract: "+strings.TrimSpace(doc.Abstract()))
	}
	if c := strings.TrimSpace(doc.Content()); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "\n\n")
}

// userMessage wraps document text in the summarization request.
func userMessage(text string) string {
	return "Please summarize the following document:\n\n" + text + "\n\nSummary:"
}
