// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"time"
)

// Receiver is the single consuming endpoint. Recv and Drain must not be
// called concurrently: the whole point of ring decomposition is exactly
// one consumer sweeping the rings.
type Receiver[T any] struct {
	sh      *shared[T]
	pending []T
	next    int
}

// Recv returns the next element. When the local batch is empty it sweeps
// the rings for up to BatchHint elements, signals freed space, and parks
// on the data signal (bounded by the poll interval) when the rings are
// empty too. Returns ctx.Err on cancellation, and ErrShutDown once the
// stream is shut down and fully drained.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	for {
		if r.next < len(r.pending) {
			v := r.pending[r.next]
			r.pending[r.next] = zero
			r.next++
			return v, nil
		}

		r.pending = r.pending[:0]
		r.next = 0
		n := r.sh.ch.ConsumeAllUpTo(r.sh.cfg.BatchHint, func(v T) {
			r.pending = append(r.pending, v)
		})
		if n > 0 {
			r.sh.notifySpace()
			continue
		}
		if r.sh.isShutDown() {
			return zero, ErrShutDown
		}

		timer := time.NewTimer(r.sh.cfg.PollInterval)
		select {
		case <-r.sh.data:
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-r.sh.done:
			// Loop once more to drain what is already in the rings.
		}
		timer.Stop()
	}
}

// Drain sweeps everything currently visible straight into handler,
// bypassing the local batch. Returns the number drained. Elements already
// buffered by Recv are delivered first.
func (r *Receiver[T]) Drain(handler func(T)) int {
	total := 0
	var zero T
	for r.next < len(r.pending) {
		handler(r.pending[r.next])
		r.pending[r.next] = zero
		r.next++
		total++
	}
	r.pending = r.pending[:0]
	r.next = 0

	n := r.sh.ch.ConsumeAll(handler)
	if n > 0 {
		r.sh.notifySpace()
	}
	return total + n
}

// Shutdown stops registration and fails senders fast. One-way. Elements
// already committed remain readable through Recv/Drain until exhausted.
func (r *Receiver[T]) Shutdown() {
	r.sh.shutdown.Do(func() {
		r.sh.ch.Close()
		close(r.sh.done)
	})
}
