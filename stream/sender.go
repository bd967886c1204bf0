// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"time"

	"code.hybscloud.com/ringq"
)

// Sender is the blocking write endpoint for one ring. Like the underlying
// ringq.Producer it may move between goroutines but must not be shared;
// register one Sender per producing goroutine.
type Sender[T any] struct {
	sh   *shared[T]
	prod *ringq.Producer[T]
}

// TrySend pushes without waiting. Returns ringq.ErrWouldBlock when the
// ring is full (the element stays with the caller) and ErrShutDown after
// shutdown.
func (s *Sender[T]) TrySend(v T) error {
	if s.sh.isShutDown() {
		return ErrShutDown
	}
	if !s.prod.Push(v) {
		return ringq.ErrWouldBlock
	}
	s.sh.notifyData()
	return nil
}

// Send pushes v, waiting for space when the ring is full. The wait runs
// the Backoff schedule first, then parks on the space signal with the poll
// interval as a backstop. Returns ctx.Err on cancellation and ErrShutDown
// after shutdown; in both cases the element was not sent.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	b := ringq.Backoff{}
	for {
		if s.sh.isShutDown() {
			return ErrShutDown
		}
		if s.prod.Push(v) {
			s.sh.notifyData()
			return nil
		}
		if !b.Completed() {
			b.Snooze()
			continue
		}
		b.Reset()

		timer := time.NewTimer(s.sh.cfg.PollInterval)
		select {
		case <-s.sh.space:
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-s.sh.done:
			timer.Stop()
			return ErrShutDown
		}
		timer.Stop()
	}
}

// ID returns the underlying producer's ring index.
func (s *Sender[T]) ID() int {
	return s.prod.ID()
}
