package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"idcheck/pkg/requestcontext"
)

var (
	ErrBufferFull      = errors.New("audit buffer full")
	ErrClosed          = errors.New("audit publisher closed")
	ErrListUnsupported = errors.New("audit store does not support listing")
)

// Publisher captures structured audit events. In sync mode Emit writes
// straight to the store; with WithAsyncBuffer events are queued and a Worker
// persists them in the background.
type Publisher struct {
	store  Store
	logger *slog.Logger
	buffer int

	mu     sync.RWMutex
	queue  chan Event
	closed bool
	done   chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a queue of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.buffer = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer > 0 {
		p.queue = make(chan Event, p.buffer)
		p.done = make(chan struct{})
		worker := NewWorker(store, p.queue, p.logger)
		go func() {
			defer close(p.done)
			_ = worker.Run(context.Background())
		}()
	}
	return p
}

// Emit fills in ID, timestamp and request metadata from ctx, then records
// the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
		return ErrBufferFull
	}
}

// List returns the events recorded for a subject when the store supports it.
func (p *Publisher) List(ctx context.Context, subjectHash string) ([]Event, error) {
	lister, ok := p.store.(Lister)
	if !ok {
		return nil, ErrListUnsupported
	}
	return lister.ListBySubject(ctx, subjectHash)
}

// Close stops accepting events and, in async mode, waits for the queue to
// drain.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.queue != nil {
		close(p.queue)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}
