package docquery

import "github.com/kailas-cloud/docquery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrNotFound            = domain.ErrNotFound
	ErrNoContentAvailable  = domain.ErrNoContentAvailable
	ErrUnknownModel        = domain.ErrUnknownModel
	ErrProviderUnavailable = domain.ErrProviderUnavailable
	ErrCompletion          = domain.ErrCompletion
)
