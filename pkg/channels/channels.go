// Package channels provides non-blocking send helpers for producer callbacks
// that must never stall, such as audio device data callbacks.
package channels

import (
	"errors"
	"sync/atomic"
)

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrChannelFull   = errors.New("channel full")
)

// DropCounter sends without blocking and counts every message it had to drop.
// The zero value is ready to use.
type DropCounter[T any] struct {
	dropped atomic.Int64
	closed  atomic.Bool
}

// Send forwards msg to ch without blocking. Once ch is observed closed all
// further sends are dropped without touching the channel.
func (d *DropCounter[T]) Send(ch chan<- T, msg T) {
	if d.closed.Load() {
		d.dropped.Add(1)
		return
	}

	if err := SendNonBlock(ch, msg); err != nil {
		d.dropped.Add(1)
		if errors.Is(err, ErrChannelClosed) {
			d.closed.Store(true)
		}
	}
}

// Dropped returns the number of messages dropped so far.
func (d *DropCounter[T]) Dropped() int64 {
	return d.dropped.Load()
}
