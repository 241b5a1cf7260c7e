package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/logger"
	"github.com/kailas-cloud/docquery/internal/metrics"
)

// Fetcher defaults.
const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultMaxBytes int64 = 50 << 20
	DefaultTimeout        = 30 * time.Second
)

// Config holds the PDF fetcher settings.
type Config struct {
	UserAgent string
	MaxBytes  int64
	TempDir   string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Fetcher downloads PDFs into temporary files.
// It follows at most one 301/302 redirect, by hand, with a Referer.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	tempDir   string
	logger    *zap.Logger
}

// NewFetcher creates a PDF fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Fetcher{
		client:    noRedirectClient(&http.Client{Timeout: cfg.Timeout}),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		tempDir:   cfg.TempDir,
		logger:    cfg.Logger,
	}
}

// WithHTTPClient replaces the HTTP client. Automatic redirects stay disabled.
func (f *Fetcher) WithHTTPClient(c *http.Client) *Fetcher {
	cp := *c
	f.client = noRedirectClient(&cp)
	return f
}

func noRedirectClient(c *http.Client) *http.Client {
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// Download is a fetched PDF spooled to a temporary file.
// Close removes the file.
type Download struct {
	file *os.File
	size int64
}

// ReadAt implements io.ReaderAt.
func (d *Download) ReadAt(p []byte, off int64) (int, error) {
	return d.file.ReadAt(p, off) //nolint:wrapcheck // io.ReaderAt contract
}

// Size returns the number of bytes downloaded.
func (d *Download) Size() int64 { return d.size }

// Close closes and removes the temporary file.
func (d *Download) Close() error {
	cerr := d.file.Close()
	if err := os.Remove(d.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temp file: %w", err)
	}
	if cerr != nil {
		return fmt.Errorf("close temp file: %w", cerr)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL whose path ends in .pdf.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.NewInvalidInput("url", rawURL, "must be an absolute http(s) URL")
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return nil, domain.NewInvalidInput("url", rawURL, "does not point to a PDF file")
	}
	return u, nil
}

// Fetch downloads the PDF at rawURL. The caller must Close the returned file.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.PDFFile, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		metrics.PDFFetchTotal.WithLabelValues("invalid_url").Inc()
		return nil, err
	}

	start := time.Now()
	d, outcome, err := f.fetch(ctx, u)
	metrics.PDFFetchTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		return nil, err
	}
	metrics.PDFFetchDuration.Observe(time.Since(start).Seconds())
	metrics.PDFFetchBytes.Observe(float64(d.size))

	logger.FromContext(ctx).Debug("pdf downloaded",
		zap.String("url", u.Redacted()),
		zap.Int64("bytes", d.size),
		zap.Duration("duration", time.Since(start)))
	return d, nil
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL) (*Download, string, error) {
	resp, err := f.get(ctx, u.String(), "")
	if err != nil {
		return nil, "network", &domain.DownloadError{URL: u.Redacted(), Err: err}
	}

	final := u
	if resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound {
		loc := resp.Header.Get("Location")
		drain(resp)
		next, perr := u.Parse(loc)
		if loc == "" || perr != nil {
			return nil, "http_error", &domain.DownloadError{
				URL: u.Redacted(), Status: resp.StatusCode, Err: errors.New("redirect without valid location"),
			}
		}
		f.logger.Debug("following pdf redirect",
			zap.Int("status", resp.StatusCode),
			zap.String("from", u.Redacted()),
			zap.String("to", next.Redacted()))
		resp, err = f.get(ctx, next.String(), u.String())
		if err != nil {
			return nil, "network", &domain.DownloadError{URL: next.Redacted(), Err: err}
		}
		final = next
	}
	defer drain(resp)

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "http_error", &domain.DownloadError{URL: final.Redacted(), Status: resp.StatusCode, ContentType: ct}
	}
	if !strings.Contains(strings.ToLower(ct), "application/pdf") {
		return nil, "content_type", &domain.DownloadError{URL: final.Redacted(), Status: resp.StatusCode, ContentType: ct}
	}
	if resp.ContentLength > f.maxBytes {
		return nil, "too_large", &domain.DownloadError{
			URL: final.Redacted(), Status: resp.StatusCode, ContentType: ct,
			Err: fmt.Errorf("content length %d exceeds %d bytes", resp.ContentLength, f.maxBytes),
		}
	}

	d, err := f.spool(resp.Body)
	if err != nil {
		outcome := "network"
		if errors.Is(err, errTooLarge) {
			outcome = "too_large"
		}
		return nil, outcome, &domain.DownloadError{URL: final.Redacted(), Status: resp.StatusCode, ContentType: ct, Err: err}
	}
	return d, "success", nil
}

// get issues one GET. Headers are built per request.
func (f *Fetcher) get(ctx context.Context, target, referer string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

var errTooLarge = errors.New("pdf exceeds size limit")

// spool copies body into a temp file capped at maxBytes. The file is removed on error.
func (f *Fetcher) spool(body io.Reader) (d *Download, err error) {
	tmp, err := os.CreateTemp(f.tempDir, "docquery-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if n > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", errTooLarge, f.maxBytes)
	}
	return &Download{file: tmp, size: n}, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
