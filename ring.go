// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// pad separates hot field groups by a full prefetch pair. Some CPUs fetch
// the adjacent cache line together with the requested one, so 64 bytes is
// not enough to keep the producer and consumer groups from false sharing.
type pad [128]byte

// Ring is a single-producer single-consumer bounded queue with a zero-copy
// write protocol and a batched read protocol.
//
// Based on Lamport's ring buffer with cached index optimization: the
// producer caches the consumer's head, the consumer caches the producer's
// tail, and each side refreshes its cache only when the cached view is
// insufficient. Sequence counters are unbounded 64-bit values (no ABA: at
// 10^10 ops/s a wrap takes ~58 years); the slot index is counter & mask.
//
// The memory ordering protocol:
//
//	producer: load tail relaxed (own) -> write slots -> store tail release
//	consumer: load head relaxed (own) -> load tail acquire -> read slots
//	          -> store head release
//
// The release store on tail synchronizes-with the consumer's acquire load,
// which is the edge under which slot writes become visible. Symmetrically
// for head, which is the edge under which freed capacity becomes visible.
//
// Exactly one goroutine may produce and one may consume at a time. Inside a
// Channel this is arranged by handing each producer its own Ring.
type Ring[T any] struct {
	_ pad

	// Producer hot: written only by the producer.
	tail       atomix.Uint64 // next write position
	cachedHead uint64        // producer's view of head, refreshed on demand

	_ pad

	// Consumer hot: written only by the consumer.
	head       atomix.Uint64 // next read position
	cachedTail uint64        // consumer's view of tail, refreshed on demand

	_ pad

	// Cold state.
	closed        atomix.Bool
	metrics       Metrics
	enableMetrics bool

	_ pad

	buffer []T
	mask   uint64
}

// NewRing creates a standalone SPSC ring. Capacity rounds up to the next
// power of 2. Panics if capacity < 2 or the rounded capacity exceeds
// 1 << MaxRingBits.
//
// Rings inside a Channel are created by NewChannel; a standalone Ring is
// the single-producer fast path with no channel sweep on top.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		panic("ringq: capacity must be >= 2")
	}
	n := roundToPow2(capacity)
	if n > 1<<MaxRingBits {
		panic("ringq: capacity must be <= 1<<20")
	}
	r := &Ring[T]{}
	r.buffer = make([]T, n)
	r.mask = uint64(n) - 1
	return r
}

// init prepares a ring allocated in place by a Channel.
func (r *Ring[T]) init(cfg Config) {
	r.buffer = make([]T, cfg.Capacity())
	r.mask = cfg.mask()
	r.enableMetrics = cfg.EnableMetrics
}

// Capacity returns the slot count.
func (r *Ring[T]) Capacity() int {
	return len(r.buffer)
}

// Len returns the number of elements currently in the ring. The value is a
// snapshot; either side may move it concurrently.
func (r *Ring[T]) Len() int {
	return int(r.tail.LoadRelaxed() - r.head.LoadRelaxed())
}

// IsEmpty reports whether the ring holds no elements.
func (r *Ring[T]) IsEmpty() bool {
	return r.tail.LoadRelaxed() == r.head.LoadRelaxed()
}

// IsFull reports whether the ring has no free slots.
func (r *Ring[T]) IsFull() bool {
	return r.Len() >= r.Capacity()
}

// Close marks the ring closed. Close is advisory: it makes ReserveBackoff
// stop waiting and is visible through Closed, but it does not interrupt
// plain Reserve/Push or pending consumption.
func (r *Ring[T]) Close() {
	r.closed.StoreRelease(true)
}

// Closed reports whether the ring has been closed.
func (r *Ring[T]) Closed() bool {
	return r.closed.LoadAcquire()
}

// ---------------------------------------------------------------------
// Producer side
// ---------------------------------------------------------------------

// Reserve claims up to n contiguous slots for zero-copy writing
// (producer only).
//
// The window may hold fewer than n slots: it is clipped by remaining
// capacity and by the ring boundary, since a reservation never wraps.
// ok is false when no slot is free (or n < 1); loop to send more than
// the returned window holds.
//
// The fast path decides against the cached head with no cross-core read;
// the cache is refreshed with a single acquire load only when it shows
// insufficient space.
func (r *Ring[T]) Reserve(n int) (Reservation[T], bool) {
	if n < 1 {
		return Reservation[T]{}, false
	}

	capacity := uint64(len(r.buffer))
	tail := r.tail.LoadRelaxed()

	free := capacity - (tail - r.cachedHead)
	if free < uint64(n) {
		r.cachedHead = r.head.LoadAcquire()
		free = capacity - (tail - r.cachedHead)
	}
	if free == 0 {
		return Reservation[T]{}, false
	}

	idx := tail & r.mask
	avail := min(uint64(n), free, capacity-idx)
	return Reservation[T]{
		ring:  r,
		slots: r.buffer[idx : idx+avail],
	}, true
}

// ReserveBackoff reserves with an adaptive wait: it retries Reserve on a
// fresh Backoff schedule until a window is obtained, the schedule is
// exhausted, or the ring is closed.
func (r *Ring[T]) ReserveBackoff(n int) (Reservation[T], bool) {
	b := Backoff{}
	retries := uint64(0)
	for !b.Completed() {
		if res, ok := r.Reserve(n); ok {
			if r.enableMetrics && retries != 0 {
				r.metrics.addReserveRetries(retries)
			}
			return res, true
		}
		if r.closed.LoadAcquire() {
			break
		}
		retries++
		b.Snooze()
	}
	if r.enableMetrics && retries != 0 {
		r.metrics.addReserveRetries(retries)
	}
	return Reservation[T]{}, false
}

// commit publishes k written slots. The release store on tail is the single
// publication point: every slot write before it becomes visible to a
// consumer that acquires the new tail.
func (r *Ring[T]) commit(k int) {
	if k == 0 {
		return
	}
	tail := r.tail.LoadRelaxed()
	if checkEnabled {
		count := tail + uint64(k) - r.head.LoadRelaxed()
		checkf(count <= uint64(len(r.buffer)),
			"commit overflows ring: count %d > capacity %d", count, len(r.buffer))
	}
	r.tail.StoreRelease(tail + uint64(k))
	if r.enableMetrics {
		r.metrics.addSent(uint64(k))
	}
}

// Push sends a single element (producer only). Returns false when no slot
// is free; the element stays with the caller.
func (r *Ring[T]) Push(v T) bool {
	res, ok := r.Reserve(1)
	if !ok {
		return false
	}
	res.slots[0] = v
	res.Commit()
	return true
}

// Enqueue adds an element to the ring (producer only).
// Returns ErrWouldBlock if the ring is full.
func (r *Ring[T]) Enqueue(elem *T) error {
	tail := r.tail.LoadRelaxed()
	if tail-r.cachedHead > r.mask {
		r.cachedHead = r.head.LoadAcquire()
		if tail-r.cachedHead > r.mask {
			return ErrWouldBlock
		}
	}

	r.buffer[tail&r.mask] = *elem
	r.tail.StoreRelease(tail + 1)
	if r.enableMetrics {
		r.metrics.addSent(1)
	}
	return nil
}

// ---------------------------------------------------------------------
// Consumer side
// ---------------------------------------------------------------------

// Dequeue removes and returns a single element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (r *Ring[T]) Dequeue() (T, error) {
	head := r.head.LoadRelaxed()
	if head >= r.cachedTail {
		r.cachedTail = r.tail.LoadAcquire()
		if head >= r.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := r.buffer[head&r.mask]
	var zero T
	r.buffer[head&r.mask] = zero
	r.head.StoreRelease(head + 1)
	if r.enableMetrics {
		r.metrics.addReceived(1)
	}
	return elem, nil
}

// ConsumeBatch drains every currently visible element, handing each to the
// handler by value, and publishes consumption with a single release store
// on head (consumer only). Returns the number consumed.
//
// This is the central amortization: N dequeues pay one cross-core
// synchronization. Each slot is zeroed as its element moves out, so the
// handler holds the only reference.
func (r *Ring[T]) ConsumeBatch(handler func(T)) int {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	r.cachedTail = tail

	n := tail - head
	if n == 0 {
		return 0
	}
	if checkEnabled {
		checkf(n <= uint64(len(r.buffer)),
			"visible count %d exceeds capacity %d", n, len(r.buffer))
	}

	var zero T
	for pos := head; pos != tail; pos++ {
		idx := pos & r.mask
		v := r.buffer[idx]
		r.buffer[idx] = zero
		handler(v)
	}

	r.head.StoreRelease(tail)
	if r.enableMetrics {
		r.metrics.addReceived(n)
	}
	return int(n)
}

// ConsumeUpTo is ConsumeBatch capped at limit elements. Bounds the work per
// invocation; still a single head publication for the whole batch.
func (r *Ring[T]) ConsumeUpTo(limit int, handler func(T)) int {
	if limit < 1 {
		return 0
	}

	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	r.cachedTail = tail

	n := tail - head
	if n == 0 {
		return 0
	}
	n = min(n, uint64(limit))

	var zero T
	for pos := head; pos != head+n; pos++ {
		idx := pos & r.mask
		v := r.buffer[idx]
		r.buffer[idx] = zero
		handler(v)
	}

	r.head.StoreRelease(head + n)
	if r.enableMetrics {
		r.metrics.addReceived(n)
	}
	return int(n)
}

// ConsumeBatchRef is ConsumeBatch with the reference shape: the handler
// sees each element in place and must not retain the pointer past the
// call. The slot is released after the handler returns. Convenient for
// trivially-copied types and for handlers that only inspect; use the owned
// shape to keep or forward elements without copying.
func (r *Ring[T]) ConsumeBatchRef(handler func(*T)) int {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	r.cachedTail = tail

	n := tail - head
	if n == 0 {
		return 0
	}

	var zero T
	for pos := head; pos != tail; pos++ {
		idx := pos & r.mask
		handler(&r.buffer[idx])
		r.buffer[idx] = zero
	}

	r.head.StoreRelease(tail)
	if r.enableMetrics {
		r.metrics.addReceived(n)
	}
	return int(n)
}

// ConsumeUpToRef is ConsumeUpTo with the reference shape.
func (r *Ring[T]) ConsumeUpToRef(limit int, handler func(*T)) int {
	if limit < 1 {
		return 0
	}

	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	r.cachedTail = tail

	n := tail - head
	if n == 0 {
		return 0
	}
	n = min(n, uint64(limit))

	var zero T
	for pos := head; pos != head+n; pos++ {
		idx := pos & r.mask
		handler(&r.buffer[idx])
		r.buffer[idx] = zero
	}

	r.head.StoreRelease(head + n)
	if r.enableMetrics {
		r.metrics.addReceived(n)
	}
	return int(n)
}

// Metrics returns a snapshot of this ring's counters. Zero when the ring
// was built without EnableMetrics.
func (r *Ring[T]) Metrics() MetricsSnapshot {
	if !r.enableMetrics {
		return MetricsSnapshot{}
	}
	return r.metrics.Snapshot()
}
