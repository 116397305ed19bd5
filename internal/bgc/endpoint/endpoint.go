// Package endpoint posts encoded BGC requests to the vendor host and decodes
// the XML response into a document.Document.
package endpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"idcheck/internal/bgc/metrics"
	"idcheck/internal/document"
	"idcheck/internal/xmlcodec"
)

const (
	// DefaultTimeout bounds a single round trip when no client is supplied.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the largest response body accepted (10MB).
	MaxResponseSize = 10 * 1024 * 1024

	contentType = "text/xml; charset=utf-8"
	maxErrBody  = 512
)

// ErrResponseTooLarge is returned when the response body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("bgc response too large")

// ErrUndecodable is returned when a 2xx response body is not well-formed XML.
var ErrUndecodable = errors.New("bgc response is not valid xml")

// StatusError is returned for non-2xx responses. Body holds the start of the
// response body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bgc endpoint returned status %d", e.StatusCode)
}

// Endpoint is the HTTP transport to one BGC host.
type Endpoint struct {
	url     string
	client  *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Endpoint)

func WithHTTPClient(client *http.Client) Option {
	return func(e *Endpoint) {
		e.client = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Endpoint) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Endpoint) {
		e.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Endpoint) {
		e.tracer = t
	}
}

// New constructs an Endpoint posting to url.
func New(url string, opts ...Option) *Endpoint {
	e := &Endpoint{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
		tracer: otel.Tracer("idcheck/bgc/endpoint"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// URL returns the host the endpoint posts to.
func (e *Endpoint) URL() string { return e.url }

// Post sends body and decodes the XML response. Transport, status and decode
// failures are returned as they occur; nothing is retried.
func (e *Endpoint) Post(ctx context.Context, body []byte) (document.Document, error) {
	ctx, span := e.tracer.Start(ctx, "bgc.endpoint.Post", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("http.request.body.size", len(body)))

	raw, err := e.roundTrip(ctx, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return document.Document{}, err
	}

	doc, err := xmlcodec.Unmarshal(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode response")
		e.logger.ErrorContext(ctx, "failed to decode bgc response", "error", err, "bytes", len(raw))
		return document.Document{}, fmt.Errorf("decode bgc response: %w", errors.Join(ErrUndecodable, err))
	}
	return doc, nil
}

func (e *Endpoint) roundTrip(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create bgc request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/xml")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.metrics.ObserveEndpoint("error", time.Since(start))
		e.logger.ErrorContext(ctx, "bgc request failed", "error", err)
		return nil, fmt.Errorf("bgc request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseSize {
		e.metrics.ObserveEndpoint(statusClass(resp.StatusCode), time.Since(start))
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrResponseTooLarge, resp.ContentLength, MaxResponseSize)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	duration := time.Since(start)
	e.metrics.ObserveEndpoint(statusClass(resp.StatusCode), duration)
	if err != nil {
		return nil, fmt.Errorf("read bgc response: %w", err)
	}
	if len(raw) > MaxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	e.metrics.ObserveResponseBytes(len(raw))

	e.logger.DebugContext(ctx, "bgc response received",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration_ms", duration.Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := raw
		if len(snippet) > maxErrBody {
			snippet = snippet[:maxErrBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	return raw, nil
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}
