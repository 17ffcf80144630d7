package transport

import (
	"context"
	"sync"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
)

// mailbox buffers envelopes between a backend's receive pump and Recv
// callers. It decouples transport-specific blocking reads from the
// context-driven receive contract: the pump goroutine delivers, Recv
// drains.
//
// Delivery is non-blocking; when the buffer is full new envelopes are
// dropped rather than stalling the pump (best-effort contract). Closing
// the mailbox stops delivery but leaves already-buffered envelopes
// readable until Recv drains them.
type mailbox struct {
	ch        chan Envelope
	done      chan struct{}
	onDrop    func(topic string)
	closeOnce sync.Once
}

func newMailbox(size int, onDrop func(topic string)) *mailbox {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &mailbox{
		ch:     make(chan Envelope, size),
		done:   make(chan struct{}),
		onDrop: onDrop,
	}
}

// deliver enqueues an envelope. Returns false when the mailbox is closed
// or the buffer is full; full-buffer drops are reported through onDrop.
func (m *mailbox) deliver(env Envelope) bool {
	select {
	case <-m.done:
		return false
	default:
	}

	select {
	case m.ch <- env:
		return true
	default:
		if m.onDrop != nil {
			m.onDrop(env.Topic)
		}
		return false
	}
}

// recv returns the next buffered envelope. Buffered envelopes win over an
// already-expired context, which gives timeout-zero polls their expected
// semantics: drain if possible, return immediately otherwise.
func (m *mailbox) recv(ctx context.Context) (Envelope, error) {
	select {
	case env := <-m.ch:
		return env, nil
	default:
	}

	select {
	case env := <-m.ch:
		return env, nil
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	case <-m.done:
		return Envelope{}, errors.ErrClosed
	}
}

// close stops delivery. Idempotent.
func (m *mailbox) close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}
