// Package service puts caching, request collapsing, PII minimization and an
// audit trail around the BGC client.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Client,ResultCache,Auditor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"idcheck/internal/audit"
	"idcheck/internal/bgc"
	"idcheck/pkg/platform/sentinel"
)

// Client is the vendor client the service drives.
type Client interface {
	USOneValidate(ctx context.Context, ssn string, opts ...bgc.CallOption) (*bgc.ValidateResult, error)
	USOneTrace(ctx context.Context, order bgc.TraceOrder, opts ...bgc.CallOption) (*bgc.TraceResult, error)
	ConnectionName() string
}

// ResultCache stores results under opaque keys.
type ResultCache interface {
	FindValidate(ctx context.Context, key string) (*bgc.ValidateResult, error)
	SaveValidate(ctx context.Context, key string, res *bgc.ValidateResult) error
	FindTrace(ctx context.Context, key string) (*bgc.TraceResult, error)
	SaveTrace(ctx context.Context, key string, res *bgc.TraceResult) error
}

// Auditor records audit events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates vendor lookups with caching and optional minimisation.
type Service struct {
	client    Client
	cache     ResultCache
	auditor   Auditor
	hasher    *Hasher
	logger    *slog.Logger
	regulated bool
	timeout   time.Duration
	group     singleflight.Group
}

type Option func(*Service)

func WithCache(cache ResultCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithAuditor(auditor Auditor) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRegulatedMode strips PII from results before they are cached or
// returned.
func WithRegulatedMode(regulated bool) Option {
	return func(s *Service) {
		s.regulated = regulated
	}
}

// WithHashKey keys the subject and cache-key hashes.
func WithHashKey(key []byte) Option {
	return func(s *Service) {
		s.hasher = NewHasher(key)
	}
}

// WithCallTimeout bounds a shared vendor call, which runs detached from any
// single caller's cancellation.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func New(client Client, opts ...Option) *Service {
	s := &Service{
		client:  client,
		hasher:  NewHasher(nil),
		logger:  slog.Default(),
		timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate runs (or serves from cache) a USOneValidate order for ssn. Any
// non-digit characters in ssn are dropped before the call.
func (s *Service) Validate(ctx context.Context, ssn string) (*bgc.ValidateResult, error) {
	ssn = normalizeSSN(ssn)
	key := s.hasher.Sum(bgc.USOneValidate.String(), s.client.ConnectionName(), ssn)
	res, cached, err := lookup(ctx, s, key,
		func(ctx context.Context) (*bgc.ValidateResult, error) { return s.cacheFindValidate(ctx, key) },
		func(ctx context.Context) (*bgc.ValidateResult, error) {
			res, err := s.client.USOneValidate(ctx, ssn)
			if err != nil {
				return nil, err
			}
			if s.regulated {
				res = MinimizeValidate(res)
			}
			s.cacheSave(ctx, func(ctx context.Context) error { return s.cache.SaveValidate(ctx, key, res) })
			return res, nil
		},
	)
	s.emit(ctx, audit.ActionValidate, bgc.USOneValidate, ssn, cached, err)
	return res, err
}

// Trace runs (or serves from cache) a USOneTrace order.
func (s *Service) Trace(ctx context.Context, order bgc.TraceOrder) (*bgc.TraceResult, error) {
	order.SSN = normalizeSSN(order.SSN)
	key := s.hasher.Sum(bgc.USOneTrace.String(), s.client.ConnectionName(),
		order.SSN, normalizeName(order.FirstName), normalizeName(order.LastName))
	res, cached, err := lookup(ctx, s, key,
		func(ctx context.Context) (*bgc.TraceResult, error) { return s.cacheFindTrace(ctx, key) },
		func(ctx context.Context) (*bgc.TraceResult, error) {
			res, err := s.client.USOneTrace(ctx, order)
			if err != nil {
				return nil, err
			}
			if s.regulated {
				res = MinimizeTrace(res)
			}
			s.cacheSave(ctx, func(ctx context.Context) error { return s.cache.SaveTrace(ctx, key, res) })
			return res, nil
		},
	)
	s.emit(ctx, audit.ActionTrace, bgc.USOneTrace, order.SSN, cached, err)
	return res, err
}

type flightResult[T any] struct {
	res    *T
	cached bool
}

// lookup is cache-aside with concurrent identical calls collapsed into one.
// The shared call runs detached from ctx so one caller giving up does not
// fail the others; each caller still stops waiting when its own ctx ends.
func lookup[T any](
	ctx context.Context,
	s *Service,
	key string,
	find func(context.Context) (*T, error),
	fetch func(context.Context) (*T, error),
) (*T, bool, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if res, err := find(callCtx); err == nil {
			return flightResult[T]{res: res, cached: true}, nil
		} else if !sentinel.IsMiss(err) {
			s.logger.WarnContext(ctx, "result cache unavailable, calling vendor", "error", err)
		}
		res, err := fetch(callCtx)
		if err != nil {
			return nil, err
		}
		return flightResult[T]{res: res}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		fr := r.Val.(flightResult[T])
		return fr.res, fr.cached, nil
	}
}

func (s *Service) cacheFindValidate(ctx context.Context, key string) (*bgc.ValidateResult, error) {
	if s.cache == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.cache.FindValidate(ctx, key)
}

func (s *Service) cacheFindTrace(ctx context.Context, key string) (*bgc.TraceResult, error) {
	if s.cache == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.cache.FindTrace(ctx, key)
}

// cacheSave is best effort; a failed write only costs a later vendor call.
func (s *Service) cacheSave(ctx context.Context, save func(context.Context) error) {
	if s.cache == nil {
		return
	}
	if err := save(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to cache bgc result", "error", err)
	}
}

func (s *Service) emit(ctx context.Context, action audit.Action, product bgc.Product, ssn string, cached bool, err error) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Category:    audit.CategoryCompliance,
		Action:      action,
		SubjectHash: s.hasher.Subject(ssn),
		Product:     product.String(),
		Connection:  s.client.ConnectionName(),
		Outcome:     bgc.Outcome(err),
		Cached:      cached,
	}
	if errs, ok := bgc.ErrorsOf(err); ok {
		event.Reason = errs.String()
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		event.Reason = err.Error()
	}
	if auditErr := s.auditor.Emit(ctx, event); auditErr != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", action,
			"error", auditErr,
		)
	}
}
