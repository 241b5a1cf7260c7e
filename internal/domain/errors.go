package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a caller-fixable request problem.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrNoContentAvailable signals that a document has nothing to summarize.
	ErrNoContentAvailable = errors.New("no content available")
	// ErrUnknownModel signals a model identifier outside the model table.
	ErrUnknownModel = errors.New("unknown model")
	// ErrProviderUnavailable signals an LLM provider without credentials.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrCompletion signals an LLM provider failure.
	ErrCompletion = errors.New("completion failed")
	// ErrDownload signals a failed PDF download.
	ErrDownload = errors.New("download failed")
	// ErrExtraction signals unparsable PDF content.
	ErrExtraction = errors.New("extraction failed")
	// ErrInfrastructure signals a storage or network failure.
	ErrInfrastructure = errors.New("infrastructure error")
)

// InvalidInputError wraps ErrInvalidInput with the offending field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s=%q: %s", ErrInvalidInput.Error(), e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput creates an invalid input error.
func NewInvalidInput(field, value, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// DownloadError wraps ErrDownload with what the fetcher observed.
type DownloadError struct {
	URL         string
	Status      int
	ContentType string
	Err         error
}

func (e *DownloadError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrDownload.Error(), e.URL)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.ContentType != "" {
		msg += fmt.Sprintf(": content type %q", e.ContentType)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DownloadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDownload, e.Err}
	}
	return []error{ErrDownload}
}

// ExtractionError wraps ErrExtraction with the parser failure.
type ExtractionError struct {
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s: page %d: %v", ErrExtraction.Error(), e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrExtraction.Error(), e.Err)
}

func (e *ExtractionError) Unwrap() error { return ErrExtraction }

// CompletionError wraps ErrCompletion with the upstream response.
type CompletionError struct {
	Provider string
	Status   int
	Body     string
}

func (e *CompletionError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s: %s", ErrCompletion.Error(), e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: %s: status %d: %s", ErrCompletion.Error(), e.Provider, e.Status, e.Body)
}

func (e *CompletionError) Unwrap() error { return ErrCompletion }

// ProviderUnavailableError wraps ErrProviderUnavailable with the requested model.
type ProviderUnavailableError struct {
	Provider string
	Model    string
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s is not configured (model %s)", ErrProviderUnavailable.Error(), e.Provider, e.Model)
}

func (e *ProviderUnavailableError) Unwrap() error { return ErrProviderUnavailable }
