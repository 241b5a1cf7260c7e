package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/logger"
	healthuc "github.com/kailas-cloud/docquery/internal/usecase/health"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// defaultV1MaxResults is the v1 search page size when max_results is absent.
const defaultV1MaxResults = 3

// Server serves the legacy /api/v3/wds surface, the /v1 surface and the
// operational endpoints from one set of use cases.
type Server struct {
	search        Searcher
	summary       Summarizer
	models        ModelLister
	health        HealthChecker
	bounds        filter.Bounds
	v1MaxResults  int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	summary Summarizer,
	models ModelLister,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:        search,
		summary:       summary,
		models:        models,
		health:        health,
		bounds:        filter.DefaultBounds(),
		v1MaxResults:  defaultV1MaxResults,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithPagination overrides page size bounds and the v1 default result count.
// Non-positive values keep the defaults.
func (s *Server) WithPagination(defaultPageSize, maxPageSize, v1MaxResults int) *Server {
	if defaultPageSize > 0 {
		s.bounds.DefaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.bounds.MaxPageSize = maxPageSize
	}
	if v1MaxResults > 0 {
		s.v1MaxResults = v1MaxResults
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/v3/wds", s.LegacySearch)
	r.Get("/api/v3/wds/facets", s.LegacyFacets)
	r.Get("/api/v3/wds/{id}", s.LegacyGetDocument)

	r.Post("/v1/search", s.V1Search)
	r.Post("/v1/summary", s.V1Summary)
	r.Post("/v1/summary/batch", s.V1SummaryBatch)
	r.Get("/v1/models", s.V1Models)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
	Commit  string            `json:"commit"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: report.Version,
		Commit:  report.Commit,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// decodeJSON reads a size-capped JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := s.classify(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Warn("domain error", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, resp)
}
