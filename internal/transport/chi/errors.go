package chi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/docquery/internal/domain"
)

// Error codes written in the error envelope.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidParameter    = "INVALID_PARAMETER"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeNoContentAvailable  = "NO_CONTENT_AVAILABLE"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeLLMError            = "LLM_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// ErrorResponse is the error envelope of both surfaces.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorHandler maps a domain error to a status and envelope. ok is false
// when the handler does not recognize err.
type errorHandler func(err error) (status int, resp ErrorResponse, ok bool)

// defaultErrorHandlers is the ordered sentinel mapping. Unknown-model errors
// also wrap ErrInvalidInput and land on 400.
func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidParameter),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrNoContentAvailable, http.StatusUnprocessableEntity, CodeNoContentAvailable),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusServiceUnavailable, CodeProviderUnavailable),
		sentinelHandler(domain.ErrCompletion, http.StatusBadGateway, CodeLLMError),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(err error) (int, ErrorResponse, bool) {
		if !errors.Is(err, sentinel) {
			return 0, ErrorResponse{}, false
		}
		return status, ErrorResponse{
			Error:   code,
			Message: safeDomainMessage(err, sentinel),
			Details: errorDetails(err),
		}, true
	}
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation messages name the offending field; everything else is the sentinel text.
func safeDomainMessage(err, sentinel error) string {
	var ie *domain.InvalidInputError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	return sentinel.Error()
}

func errorDetails(err error) map[string]any {
	var (
		ie *domain.InvalidInputError
		pe *domain.ProviderUnavailableError
		ce *domain.CompletionError
	)
	switch {
	case errors.As(err, &ie):
		d := map[string]any{"field": ie.Field}
		if ie.Value != "" {
			d["value"] = ie.Value
		}
		return d
	case errors.As(err, &pe):
		return map[string]any{"provider": pe.Provider, "model": pe.Model}
	case errors.As(err, &ce):
		d := map[string]any{"provider": ce.Provider}
		if ce.Status != 0 {
			d["upstream_status"] = strconv.Itoa(ce.Status)
		}
		return d
	}
	return nil
}

// classify maps err through the handler list, defaulting to 500.
func (s *Server) classify(err error) (int, ErrorResponse) {
	for _, h := range s.errorHandlers {
		if status, resp, ok := h(err); ok {
			return status, resp
		}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: CodeInternalError, Message: "internal error"}
}
