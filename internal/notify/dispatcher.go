// Package notify fans booking events out to users without blocking the
// request that produced them.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindBookingRequested   Kind = "booking_requested"
	KindBookingConfirmed   Kind = "booking_confirmed"
	KindBookingCancelled   Kind = "booking_cancelled"
	KindBookingCompleted   Kind = "booking_completed"
	KindBookingNoShow      Kind = "booking_no_show"
	KindBookingRescheduled Kind = "booking_rescheduled"
)

type Message struct {
	UserID    uint              `json:"user_id"`
	Kind      Kind              `json:"kind"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	BookingID *uint             `json:"booking_id,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// Sink delivers a message over one channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, m Message) error
}

type Dispatcher struct {
	sinks   []Sink
	log     *zap.Logger
	queue   chan Message
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(log *zap.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}

	d := &Dispatcher{
		sinks:   sinks,
		log:     log,
		queue:   make(chan Message, buffer),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for m := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := s.Deliver(ctx, m); err != nil {
				d.log.Error("notification delivery failed",
					zap.String("sink", s.Name()),
					zap.String("kind", string(m.Kind)),
					zap.Uint("user_id", m.UserID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch enqueues m for every sink. It never blocks; when the queue is
// full or the dispatcher is closed the message is dropped and logged.
func (d *Dispatcher) Dispatch(m Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notification dispatcher closed, dropping message", zap.String("kind", string(m.Kind)))
		return
	}

	select {
	case d.queue <- m:
	default:
		d.log.Warn("notification queue full, dropping message",
			zap.String("kind", string(m.Kind)),
			zap.Uint("user_id", m.UserID),
		)
	}
}

// Close stops intake and waits until queued messages are delivered or ctx
// expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
