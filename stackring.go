// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// StackRingCapacity is the slot count of a StackRing. Go has no type-level
// array lengths, so the inline variant fixes its capacity at build time
// instead of per instantiation; 4096 slots keeps StackRing[uint64] around
// 33KB, safe to embed or place on a goroutine stack. Ring sizes beyond this
// belong on the heap ring.
const (
	stackRingBits     = 12
	StackRingCapacity = 1 << stackRingBits
	stackRingMask     = StackRingCapacity - 1
)

// StackRing is the inline-buffer variant of [Ring]: same SPSC protocol,
// same counters and ordering, but the slot array is embedded in the struct
// so every access is a base+offset the compiler can fold, with no pointer
// chase and no separate allocation.
type StackRing[T any] struct {
	_ pad

	tail       atomix.Uint64
	cachedHead uint64

	_ pad

	head       atomix.Uint64
	cachedTail uint64

	_ pad

	buffer [StackRingCapacity]T
}

// NewStackRing returns an empty inline ring on the heap. To truly avoid the
// allocation, declare a StackRing variable directly; the zero value is
// ready to use.
func NewStackRing[T any]() *StackRing[T] {
	return &StackRing[T]{}
}

// Capacity returns StackRingCapacity.
func (r *StackRing[T]) Capacity() int {
	return StackRingCapacity
}

// Len returns a snapshot of the element count.
func (r *StackRing[T]) Len() int {
	return int(r.tail.LoadRelaxed() - r.head.LoadRelaxed())
}

// IsEmpty reports whether the ring holds no elements.
func (r *StackRing[T]) IsEmpty() bool {
	return r.tail.LoadRelaxed() == r.head.LoadRelaxed()
}

// IsFull reports whether the ring has no free slots.
func (r *StackRing[T]) IsFull() bool {
	return r.Len() >= StackRingCapacity
}

// Reserve claims up to n contiguous slots (producer only). Same contract
// as [Ring.Reserve]: the window never wraps and may be shorter than n.
func (r *StackRing[T]) Reserve(n int) (StackReservation[T], bool) {
	if n < 1 {
		return StackReservation[T]{}, false
	}

	tail := r.tail.LoadRelaxed()
	free := uint64(StackRingCapacity) - (tail - r.cachedHead)
	if free < uint64(n) {
		r.cachedHead = r.head.LoadAcquire()
		free = uint64(StackRingCapacity) - (tail - r.cachedHead)
	}
	if free == 0 {
		return StackReservation[T]{}, false
	}

	idx := tail & stackRingMask
	avail := min(uint64(n), free, uint64(StackRingCapacity)-idx)
	return StackReservation[T]{
		ring:  r,
		slots: r.buffer[idx : idx+avail],
	}, true
}

func (r *StackRing[T]) commit(k int) {
	if k == 0 {
		return
	}
	tail := r.tail.LoadRelaxed()
	if checkEnabled {
		count := tail + uint64(k) - r.head.LoadRelaxed()
		checkf(count <= StackRingCapacity,
			"commit overflows ring: count %d > capacity %d", count, StackRingCapacity)
	}
	r.tail.StoreRelease(tail + uint64(k))
}

// Push sends a single element (producer only).
func (r *StackRing[T]) Push(v T) bool {
	res, ok := r.Reserve(1)
	if !ok {
		return false
	}
	res.slots[0] = v
	res.Commit()
	return true
}

// Enqueue adds an element (producer only).
// Returns ErrWouldBlock if the ring is full.
func (r *StackRing[T]) Enqueue(elem *T) error {
	tail := r.tail.LoadRelaxed()
	if tail-r.cachedHead > stackRingMask {
		r.cachedHead = r.head.LoadAcquire()
		if tail-r.cachedHead > stackRingMask {
			return ErrWouldBlock
		}
	}

	r.buffer[tail&stackRingMask] = *elem
	r.tail.StoreRelease(tail + 1)
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (r *StackRing[T]) Dequeue() (T, error) {
	head := r.head.LoadRelaxed()
	if head >= r.cachedTail {
		r.cachedTail = r.tail.LoadAcquire()
		if head >= r.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := r.buffer[head&stackRingMask]
	var zero T
	r.buffer[head&stackRingMask] = zero
	r.head.StoreRelease(head + 1)
	return elem, nil
}

// ConsumeBatch drains everything visible with one head publication
// (consumer only), handing elements to the handler by value.
func (r *StackRing[T]) ConsumeBatch(handler func(T)) int {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	r.cachedTail = tail

	n := tail - head
	if n == 0 {
		return 0
	}

	var zero T
	for pos := head; pos != tail; pos++ {
		idx := pos & stackRingMask
		v := r.buffer[idx]
		r.buffer[idx] = zero
		handler(v)
	}

	r.head.StoreRelease(tail)
	return int(n)
}

// ConsumeUpTo is ConsumeBatch capped at limit elements.
func (r *StackRing[T]) ConsumeUpTo(limit int, handler func(T)) int {
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
		idx := pos & stackRingMask
		v := r.buffer[idx]
		r.buffer[idx] = zero
		handler(v)
	}

	r.head.StoreRelease(head + n)
	return int(n)
}

// StackReservation is [Reservation] for a StackRing.
type StackReservation[T any] struct {
	ring  *StackRing[T]
	slots []T
	done  bool
}

// Slots returns the reserved window.
func (res *StackReservation[T]) Slots() []T {
	return res.slots
}

// Len returns the number of reserved slots.
func (res *StackReservation[T]) Len() int {
	return len(res.slots)
}

// Commit publishes every reserved slot.
func (res *StackReservation[T]) Commit() {
	res.CommitPartial(len(res.slots))
}

// CommitPartial publishes the first k slots, k <= Len.
func (res *StackReservation[T]) CommitPartial(k int) {
	if checkEnabled {
		checkf(!res.done, "reservation used twice")
		checkf(k >= 0 && k <= len(res.slots),
			"commit of %d slots outside reservation of %d", k, len(res.slots))
	}
	ring := res.ring
	tailSlots := res.slots[k:]
	res.done = true
	res.ring = nil
	res.slots = nil

	var zero T
	for i := range tailSlots {
		tailSlots[i] = zero
	}
	ring.commit(k)
}

// Abandon discards the window without advancing the ring.
func (res *StackReservation[T]) Abandon() {
	if res.done {
		return
	}
	var zero T
	for i := range res.slots {
		res.slots[i] = zero
	}
	res.done = true
	res.ring = nil
	res.slots = nil
}
