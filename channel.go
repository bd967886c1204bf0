// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// Channel is a multi-producer single-consumer channel built by ring
// decomposition: each registered producer writes to a dedicated SPSC
// [Ring], and one consumer sweeps the rings. Producers therefore never
// contend with each other; the only shared atomic is the registration
// counter.
//
// At most one goroutine may consume at a time. The consumer may change
// over time, but two concurrent sweeps on one channel are a contract
// violation, exactly like two producers on one ring.
type Channel[T any] struct {
	rings      []Ring[T]
	registered atomix.Int64
	closed     atomix.Bool
	config     Config
}

// NewChannel creates a channel with cfg.MaxProducers rings of
// cfg.Capacity() slots each. Panics if the configuration is invalid;
// validate first when the values come from the outside.
func NewChannel[T any](cfg Config) *Channel[T] {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	c := &Channel[T]{
		rings:  make([]Ring[T], cfg.MaxProducers),
		config: cfg,
	}
	for i := range c.rings {
		c.rings[i].init(cfg)
	}
	return c
}

// Register claims the next ring and returns the producer handle bound to
// it. The handle may move across goroutines but must not be shared: one
// live producer per ring.
//
// Returns ErrClosed after Close, or ErrTooManyProducers once all
// MaxProducers rings are claimed.
func (c *Channel[T]) Register() (*Producer[T], error) {
	if c.closed.LoadAcquire() {
		return nil, ErrClosed
	}

	id := int(c.registered.AddAcqRel(1)) - 1
	if id >= c.config.MaxProducers {
		// Undo the overshoot so later Register calls fail the same way
		// instead of drifting further past the limit.
		c.registered.AddAcqRel(-1)
		return nil, ErrTooManyProducers
	}

	return &Producer[T]{ring: &c.rings[id], id: id}, nil
}

// Close stops registration. One-way: existing producers keep writing and
// pending elements still drain; nothing in flight is interrupted.
func (c *Channel[T]) Close() {
	c.closed.StoreRelease(true)
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	return c.closed.LoadAcquire()
}

// ProducerCount returns the number of successfully registered producers.
func (c *Channel[T]) ProducerCount() int {
	// A burst of failed registrations can briefly overshoot before the
	// rollback lands; clamp so ring indexing stays in range.
	return min(int(c.registered.LoadAcquire()), c.config.MaxProducers)
}

// Config returns the channel's configuration.
func (c *Channel[T]) Config() Config {
	return c.config
}

// Ring returns ring i for dedicated-consumer topologies where each ring
// gets its own draining goroutine instead of a whole-channel sweep.
// Returns nil if i is out of range.
func (c *Channel[T]) Ring(i int) *Ring[T] {
	if i < 0 || i >= c.config.MaxProducers {
		return nil
	}
	return &c.rings[i]
}

// ConsumeAll drains every ring in registration order, handing each element
// to the handler by value (consumer only). Elements within one ring arrive
// in that producer's FIFO order; no ordering holds across rings. Returns
// the total consumed.
func (c *Channel[T]) ConsumeAll(handler func(T)) int {
	total := 0
	count := c.ProducerCount()
	for i := range count {
		total += c.rings[i].ConsumeBatch(handler)
	}
	return total
}

// ConsumeAllRef is ConsumeAll with the reference shape: the handler sees
// each element in place and must not retain the pointer past the call.
func (c *Channel[T]) ConsumeAllRef(handler func(*T)) int {
	total := 0
	count := c.ProducerCount()
	for i := range count {
		total += c.rings[i].ConsumeBatchRef(handler)
	}
	return total
}

// ConsumeAllUpTo drains at most limit elements. Each sweep visits the rings
// in registration order and offers each ring the remaining budget; sweeps
// repeat until the budget is spent or a full sweep finds nothing. Every
// call starts at ring 0, so an early ring holding at least limit elements
// takes the whole budget and later rings are not reached in that call.
func (c *Channel[T]) ConsumeAllUpTo(limit int, handler func(T)) int {
	total := 0
	count := c.ProducerCount()
	for total < limit {
		swept := 0
		for i := range count {
			if total >= limit {
				break
			}
			n := c.rings[i].ConsumeUpTo(limit-total, handler)
			swept += n
			total += n
		}
		if swept == 0 {
			break
		}
	}
	return total
}

// ConsumeAllUpToRef is ConsumeAllUpTo with the reference shape.
func (c *Channel[T]) ConsumeAllUpToRef(limit int, handler func(*T)) int {
	total := 0
	count := c.ProducerCount()
	for total < limit {
		swept := 0
		for i := range count {
			if total >= limit {
				break
			}
			n := c.rings[i].ConsumeUpToRef(limit-total, handler)
			swept += n
			total += n
		}
		if swept == 0 {
			break
		}
	}
	return total
}

// Metrics returns counters aggregated over the registered rings. Zero
// unless the channel was built with EnableMetrics.
func (c *Channel[T]) Metrics() MetricsSnapshot {
	var s MetricsSnapshot
	count := c.ProducerCount()
	for i := range count {
		s.merge(c.rings[i].Metrics())
	}
	return s
}
