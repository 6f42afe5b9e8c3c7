package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stellarsignal/orbitwatch/core"
	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/model"
)

// DefaultFetchTimeout bounds one dataset fetch.
const DefaultFetchTimeout = 10 * time.Second

// maxBodyBytes caps the response body; full public catalogs stay well
// under this.
const maxBodyBytes = 16 << 20

// FetchMetrics receives fetch outcomes and classifier skip counts. The
// observability collector satisfies it.
type FetchMetrics interface {
	CountFetch(source model.DataSource, outcome string)
	CountSkippedRecords(n int)
}

// Loader retrieves raw three-line element batches from the configured data
// service and classifies them into tracked objects. Fetch failures never
// propagate: the loader degrades to a synthetic dataset so the tick loop
// stays fed.
type Loader struct {
	client     *http.Client
	baseURL    string
	timeout    time.Duration
	classifier *core.Classifier
	log        logging.Logger
	metrics    FetchMetrics
	tracer     trace.Tracer
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient injects the HTTP client, e.g. one with test transports.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithFetchTimeout overrides the per-fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithMetrics wires fetch outcome counters.
func WithMetrics(m FetchMetrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithClassifier overrides the default classification rule table.
func WithClassifier(c *core.Classifier) Option {
	return func(l *Loader) {
		if c != nil {
			l.classifier = c
		}
	}
}

// New constructs a Loader against the given base URL.
func New(baseURL string, log logging.Logger, opts ...Option) *Loader {
	if log == nil {
		log = logging.Noop()
	}
	l := &Loader{
		client:     http.DefaultClient,
		baseURL:    baseURL,
		timeout:    DefaultFetchTimeout,
		classifier: core.NewClassifier(nil),
		log:        log,
		tracer:     otel.Tracer("orbitwatch/loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) endpoint(source model.DataSource) string {
	return fmt.Sprintf("%s/elements/%s", l.baseURL, source)
}

// Fetch retrieves the raw record text for one data source. Transport
// errors and non-2xx statuses are returned as errors; the caller decides
// whether to fall back.
func (l *Loader) Fetch(ctx context.Context, source model.DataSource) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ctx, span := l.tracer.Start(ctx, "loader.Fetch",
		trace.WithAttributes(attribute.String("source", source.String())))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint(source), nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("build request for %s: %w", source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return "", fmt.Errorf("fetch %s: unexpected status %s", source, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("read %s response: %w", source, err)
	}
	span.SetAttributes(attribute.Int("bytes", len(body)))
	return string(body), nil
}

// LoadDataset fetches and classifies one source. On any fetch failure it
// substitutes the deterministic synthetic dataset for that source and
// reports fellBack=true; the warning is logged here so callers can treat
// the result as always usable.
func (l *Loader) LoadDataset(ctx context.Context, source model.DataSource) (objects []*model.TrackedObject, fellBack bool) {
	text, err := l.Fetch(ctx, source)
	outcome := "ok"
	if err != nil {
		l.log.Warn(ctx, "dataset fetch failed; using synthetic data",
			logging.String("source", source.String()),
			logging.Err(err),
		)
		text = SyntheticDataset(source)
		outcome = "fallback"
		fellBack = true
	}
	if l.metrics != nil {
		l.metrics.CountFetch(source, outcome)
	}

	objects, skipped := l.classifier.ParseRecords(text)
	if skipped > 0 {
		l.log.Debug(ctx, "skipped malformed records",
			logging.String("source", source.String()),
			logging.Int("skipped", skipped),
		)
		if l.metrics != nil {
			l.metrics.CountSkippedRecords(skipped)
		}
	}
	return objects, fellBack
}
