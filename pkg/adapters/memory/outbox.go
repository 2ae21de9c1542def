package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// ErrOutboxFull is returned when the outbox buffer has no room.
var ErrOutboxFull = errors.New("reply outbox is full")

// Outbox is a buffered ports.ReplySink backed by a channel.
// Send never blocks: a full buffer drops the reply and reports ErrOutboxFull.
type Outbox struct {
	ch     chan domain.UserInput
	mu     sync.Mutex
	closed bool
}

var _ ports.ReplySink = (*Outbox)(nil)

// NewOutbox creates an outbox holding up to size replies.
func NewOutbox(size int) *Outbox {
	return &Outbox{ch: make(chan domain.UserInput, max(size, 1))}
}

func (o *Outbox) Send(ctx context.Context, input domain.UserInput) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errors.New("reply outbox is closed")
	}
	select {
	case o.ch <- input:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Replies is the receiving end of the outbox.
func (o *Outbox) Replies() <-chan domain.UserInput {
	return o.ch
}

// Close closes the channel returned by Replies. Later sends fail.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.ch)
	}
}
