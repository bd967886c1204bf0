// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stream adapts a ringq channel to blocking, context-aware
// send/receive.
//
// The core library never blocks; this package composes its synchronous
// reserve/push/consume contract with notification channels so goroutines
// can park instead of spinning. Producers that hit a full ring wait for a
// space signal the receiver raises after draining; the receiver waits for
// a data signal producers raise after pushing. A configurable poll
// interval backs both waits as a safety net for missed signals, and keeps
// small bursts batched.
//
//	factory, rx := stream.New[uint64](ringq.DefaultConfig(), stream.DefaultConfig())
//	tx, err := factory.Register()
//	if err != nil { ... }
//
//	go func() {
//	    for v := range source {
//	        if err := tx.Send(ctx, v); err != nil {
//	            return
//	        }
//	    }
//	}()
//
//	for {
//	    v, err := rx.Recv(ctx)
//	    if err != nil {
//	        break // context done or stream shut down
//	    }
//	    process(v)
//	}
//
// Shutdown is one-way and drain-friendly: after [Receiver.Shutdown],
// senders fail fast with ErrShutDown while Recv keeps returning elements
// already in the rings until they are gone.
package stream

import (
	"errors"
	"sync"

	"code.hybscloud.com/ringq"
)

// ErrShutDown indicates the stream was shut down. Terminal for senders;
// the receiver still drains elements that were in flight.
var ErrShutDown = errors.New("stream: shut down")

// shared is the state both endpoints hold: the core channel plus the two
// wake signals. The signal channels have capacity 1 and are sent to
// non-blockingly, giving notify-one semantics; the poll interval covers
// any waiter the single token misses.
type shared[T any] struct {
	ch    *ringq.Channel[T]
	cfg   Config
	data  chan struct{} // producers -> receiver: elements available
	space chan struct{} // receiver -> producers: capacity freed
	done  chan struct{} // closed on shutdown

	shutdown sync.Once
}

func (s *shared[T]) notifyData() {
	select {
	case s.data <- struct{}{}:
	default:
	}
}

func (s *shared[T]) notifySpace() {
	select {
	case s.space <- struct{}{}:
	default:
	}
}

func (s *shared[T]) isShutDown() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// New builds a stream over a fresh ringq channel and returns the sender
// factory and the single receiver. Panics if cfg is invalid, like
// ringq.NewChannel.
func New[T any](cfg ringq.Config, scfg Config) (*SenderFactory[T], *Receiver[T]) {
	scfg = scfg.withDefaults()
	sh := &shared[T]{
		ch:    ringq.NewChannel[T](cfg),
		cfg:   scfg,
		data:  make(chan struct{}, 1),
		space: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	rx := &Receiver[T]{
		sh:      sh,
		pending: make([]T, 0, scfg.BatchHint),
	}
	return &SenderFactory[T]{sh: sh}, rx
}

// SenderFactory registers senders. Registration is explicit rather than a
// Clone on Sender: every sender owns a dedicated ring, and the factory is
// the only way to claim one.
type SenderFactory[T any] struct {
	sh *shared[T]
}

// Register claims a ring and returns its sender. Fails with
// ringq.ErrTooManyProducers or ringq.ErrClosed (the latter also after
// shutdown).
func (f *SenderFactory[T]) Register() (*Sender[T], error) {
	p, err := f.sh.ch.Register()
	if err != nil {
		return nil, err
	}
	return &Sender[T]{sh: f.sh, prod: p}, nil
}
