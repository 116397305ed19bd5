// Package bgc is a client for the BGC (BackgroundChecks.com Direct) identity
// verification XML API.
//
// Every call builds a request document, posts it, runs the raw response
// through CommonPipeline, checks it with a Validator and projects the
// normalized document onto a flat result.
package bgc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"idcheck/internal/bgc/endpoint"
	"idcheck/internal/bgc/metrics"
	"idcheck/internal/document"
)

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks Transport

// Transport posts an encoded request and returns the decoded response.
type Transport interface {
	Post(ctx context.Context, body []byte) (document.Document, error)
}

// TransportFactory returns the transport for a connection.
type TransportFactory func(conn Connection) Transport

// Client issues BGC product orders over a named connection. A Client is
// immutable and safe for concurrent use; Using returns a copy bound to
// another connection.
type Client struct {
	conns        *Connections
	name         string
	newTransport TransportFactory
	httpClient   *http.Client
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTransport replaces the HTTP endpoint for every connection.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.newTransport = func(Connection) Transport { return t }
	}
}

// WithTransportFactory replaces how a connection's transport is built.
func WithTransportFactory(f TransportFactory) Option {
	return func(c *Client) {
		c.newTransport = f
	}
}

// New constructs a Client bound to DefaultConnection.
func New(conns *Connections, opts ...Option) *Client {
	c := &Client{
		conns:  conns,
		name:   DefaultConnection,
		logger: slog.Default(),
		tracer: otel.Tracer("idcheck/bgc"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.newTransport == nil {
		c.newTransport = c.endpointFor
	}
	return c
}

// Using returns a copy of c bound to the named connection.
func (c *Client) Using(name string) (*Client, error) {
	if _, err := c.conns.Get(name); err != nil {
		return nil, err
	}
	clone := *c
	clone.name = name
	return &clone, nil
}

// ConnectionName returns the name of the bound connection.
func (c *Client) ConnectionName() string { return c.name }

// CallOption adjusts a single product call.
type CallOption func(*callConfig)

type callConfig struct {
	response *document.Document
}

// WithResponse skips the network and processes raw as if BGC had returned
// it. raw is the decoded response, root element included.
func WithResponse(raw document.Document) CallOption {
	return func(cfg *callConfig) {
		cfg.response = &raw
	}
}

// USOneValidate orders a USOneValidate check of ssn.
func (c *Client) USOneValidate(ctx context.Context, ssn string, opts ...CallOption) (res *ValidateResult, err error) {
	ctx, done := c.begin(ctx, USOneValidate)
	defer func() { done(err) }()

	clean, err := c.exchange(ctx, USOneValidate, func(l Login) document.Document {
		return BuildUSOneValidate(l, ssn)
	}, opts)
	if err != nil {
		return nil, err
	}
	return projectValidate(clean)
}

// USOneTrace orders a USOneTrace search for the subject of order.
func (c *Client) USOneTrace(ctx context.Context, order TraceOrder, opts ...CallOption) (res *TraceResult, err error) {
	ctx, done := c.begin(ctx, USOneTrace)
	defer func() { done(err) }()

	clean, err := c.exchange(ctx, USOneTrace, func(l Login) document.Document {
		return BuildUSOneTrace(l, order)
	}, opts)
	if err != nil {
		return nil, err
	}
	return projectTrace(clean)
}

// exchange runs one request/response cycle and returns the validated,
// normalized response. Transport errors are returned unchanged.
func (c *Client) exchange(ctx context.Context, product Product, build func(Login) document.Document, opts []CallOption) (document.Document, error) {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var raw document.Document
	if cfg.response != nil {
		raw = *cfg.response
	} else {
		conn, err := c.conns.Get(c.name)
		if err != nil {
			return document.Document{}, err
		}
		body, err := EncodeRequest(build(conn.Login()))
		if err != nil {
			return document.Document{}, err
		}
		raw, err = c.newTransport(conn).Post(ctx, body)
		if err != nil {
			return document.Document{}, err
		}
	}

	clean, err := CommonPipeline.Run(raw)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := (Validator{Product: product}).Validate(clean); err != nil {
		return document.Document{}, err
	}
	return clean, nil
}

func (c *Client) begin(ctx context.Context, product Product) (context.Context, func(error)) {
	ctx, span := c.tracer.Start(ctx, "bgc."+product.String(), trace.WithAttributes(
		attribute.String("bgc.product", product.String()),
		attribute.String("bgc.connection", c.name),
	))
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()
		outcome := Outcome(err)
		c.metrics.ObserveProduct(product.String(), outcome, time.Since(start))
		span.SetAttributes(attribute.String("bgc.outcome", outcome))
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)

		if errs, ok := ErrorsOf(err); ok {
			tier := "product"
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				tier = "general"
			}
			for _, code := range errs.Codes() {
				c.metrics.IncrementVendorError(tier, code)
			}
			c.logger.WarnContext(ctx, "bgc reported errors",
				"product", product.String(),
				"connection", c.name,
				"tier", tier,
				"codes", errs.Codes(),
			)
			return
		}
		c.logger.ErrorContext(ctx, "bgc call failed",
			"product", product.String(),
			"connection", c.name,
			"outcome", outcome,
			"error", err,
		)
	}
}

// Outcome classifies the error returned by a product call for metrics and
// audit: ok, api_error, product_error, malformed or failed.
func Outcome(err error) string {
	var (
		apiErr     *APIError
		productErr *ProductError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &productErr):
		return "product_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "failed"
	}
}

func (c *Client) endpointFor(conn Connection) Transport {
	opts := []endpoint.Option{
		endpoint.WithLogger(c.logger.With("connection", conn.Name)),
		endpoint.WithMetrics(c.metrics),
	}
	if c.httpClient != nil {
		opts = append(opts, endpoint.WithHTTPClient(c.httpClient))
	}
	return endpoint.New(conn.Host, opts...)
}
