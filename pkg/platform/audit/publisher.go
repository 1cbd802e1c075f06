package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher buffers events from domain services and persists them in the
// background. Emit never blocks the request path; when the buffer is full the
// event is dropped and counted, never stalling a mutation on audit I/O.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
	inbox  chan Event
	done   chan struct{}
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithSink attaches a downstream sink (e.g. Kafka) that receives a copy of
// every persisted event.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithLogger sets a logger for drop and persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBuffer overrides the inbox buffer size.
func WithBuffer(n int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan Event, n)
	}
}

// NewPublisher constructs a Publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		inbox: make(chan Event, 256),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit queues an event for persistence. Timestamp defaults to now.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit inbox full, dropping event",
				"action", event.Action,
				"project_id", event.ProjectID,
			)
		}
	}
	return nil
}

// Run drains the inbox until ctx is cancelled, then flushes what remains.
func (p *Publisher) Run(ctx context.Context) error {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return ctx.Err()
		case event := <-p.inbox:
			p.persist(event)
		}
	}
}

// Wait blocks until Run has returned. Call after cancelling Run's context
// during shutdown.
func (p *Publisher) Wait() {
	<-p.done
}

func (p *Publisher) flush() {
	for {
		select {
		case event := <-p.inbox:
			p.persist(event)
		default:
			return
		}
	}
}

func (p *Publisher) persist(event Event) {
	// Detached context: persistence must survive request cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.store.Append(ctx, event); err != nil && p.logger != nil {
		p.logger.Error("audit event persistence failed",
			"action", event.Action,
			"project_id", event.ProjectID,
			"error", err,
		)
	}
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Error("audit sink publish failed",
			"action", event.Action,
			"project_id", event.ProjectID,
			"error", err,
		)
	}
}
