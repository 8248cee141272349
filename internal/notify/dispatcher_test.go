package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySink struct {
	name string
	err  error

	mu   sync.Mutex
	got  []Message
	gate chan struct{}
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) Deliver(_ context.Context, m Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, m)
	return s.err
}

func (s *memorySink) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.got...)
}

func closeWithin(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
}

func TestDispatcher_FansOutToEverySink(t *testing.T) {
	failing := &memorySink{name: "failing", err: errors.New("unreachable")}
	inbox := &memorySink{name: "inbox"}
	d := NewDispatcher(zap.NewNop(), 8, failing, inbox)

	d.Dispatch(Message{UserID: 4, Kind: KindBookingRequested})
	d.Dispatch(Message{UserID: 5, Kind: KindBookingConfirmed})
	closeWithin(t, d)

	require.Len(t, inbox.messages(), 2)
	assert.Equal(t, KindBookingRequested, inbox.messages()[0].Kind)
	assert.Len(t, failing.messages(), 2, "a failing sink must not stop the others")
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	gate := make(chan struct{})
	slow := &memorySink{name: "slow", gate: gate}
	d := NewDispatcher(zap.NewNop(), 1, slow)

	// the worker holds the first message at the gate, the second fills the
	// buffer and everything after is dropped
	for i := 0; i < 10; i++ {
		d.Dispatch(Message{UserID: uint(i), Kind: KindBookingCancelled})
	}
	close(gate)
	closeWithin(t, d)

	got := slow.messages()
	assert.GreaterOrEqual(t, len(got), 1)
	assert.LessOrEqual(t, len(got), 2)
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	inbox := &memorySink{name: "inbox"}
	d := NewDispatcher(zap.NewNop(), 4, inbox)
	closeWithin(t, d)

	assert.NotPanics(t, func() {
		d.Dispatch(Message{UserID: 1, Kind: KindBookingCompleted})
	})
	assert.Empty(t, inbox.messages())
}
