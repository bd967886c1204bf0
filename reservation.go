// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

// Reservation is a single-use exclusive write window over a contiguous run
// of free ring slots, obtained from [Ring.Reserve].
//
// The producer writes elements into Slots and then either commits
// (publishing a prefix of the window to the consumer) or abandons (the
// ring's tail never advances and nothing becomes visible). A window that is
// neither committed nor abandoned publishes nothing; the same physical
// slots are handed out again by the next Reserve.
//
// A Reservation borrows the ring's storage: it must not outlive the ring,
// and no second reservation may be taken on the same ring until this one is
// committed or abandoned. Single-threaded producer access makes that hold
// naturally.
type Reservation[T any] struct {
	ring  *Ring[T]
	slots []T
	done  bool
}

// Slots returns the reserved window. Its length is the reserved count,
// which may be less than requested; see [Ring.Reserve].
func (res *Reservation[T]) Slots() []T {
	return res.slots
}

// Len returns the number of reserved slots.
func (res *Reservation[T]) Len() int {
	return len(res.slots)
}

// Commit publishes every reserved slot. The caller must have written all
// of them.
func (res *Reservation[T]) Commit() {
	res.CommitPartial(len(res.slots))
}

// CommitPartial publishes the first k slots, k <= Len. Slots [k, Len) stay
// unpublished; any values written there are discarded the same way Abandon
// discards them. Committing past the written prefix hands uninitialized
// slots to the consumer.
func (res *Reservation[T]) CommitPartial(k int) {
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

	// Unpublished remainder must not pin whatever was written into it.
	var zero T
	for i := range tailSlots {
		tailSlots[i] = zero
	}
	ring.commit(k)
}

// Abandon discards the window. The tail does not advance, nothing becomes
// visible to the consumer, and the slots are scrubbed so half-written
// elements do not keep their referents alive until the slots are reused.
// Abandoning an already-consumed reservation is a no-op.
func (res *Reservation[T]) Abandon() {
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
