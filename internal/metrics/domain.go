package metrics

import "github.com/prometheus/client_golang/prometheus"

// LLM completion metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "model"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_errors_total",
			Help:      "Total LLM completion errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens reported by providers",
		},
		[]string{"provider", "model", "type"},
	)
)

// PDF fetch and extraction metrics.
var (
	PDFFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_fetch_total",
			Help:      "PDF downloads by outcome",
		},
		[]string{"outcome"},
	)

	PDFFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_fetch_duration_seconds",
			Help:      "PDF download duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PDFFetchBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_fetch_bytes",
			Help:      "Size of downloaded PDFs in bytes",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)

	PDFExtractPages = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_extract_pages",
			Help:      "Pages read per extraction",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		},
	)

	PDFExtractWords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_extract_words",
			Help:      "Words extracted per document",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
	)
)

// Search and summary metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Catalog query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"}, // "search" / "get" / "facets"
	)

	SummariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summaries produced by content source",
		},
		[]string{"source", "status"},
	)

	SummaryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_cache_total",
			Help:      "Summary cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers LLM, PDF, search and summary metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		LLMRequestsTotal,
		LLMRequestDuration,
		LLMErrorsTotal,
		LLMTokensTotal,
		PDFFetchTotal,
		PDFFetchDuration,
		PDFFetchBytes,
		PDFExtractPages,
		PDFExtractWords,
		SearchDuration,
		SummariesTotal,
		SummaryCacheTotal,
	)
	domainMetricsRegistered = true
}
