// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

// Producer is the write capability for exactly one ring inside a Channel,
// returned by [Channel.Register].
//
// A Producer may move between goroutines but must never be used from two at
// once: the ring's wait-free write path exists because it has a single
// writer. There is no clone; holding two handles to one ring breaks the
// protocol.
type Producer[T any] struct {
	ring *Ring[T]
	id   int
}

// ID returns the producer's ring index, assigned in registration order.
func (p *Producer[T]) ID() int {
	return p.id
}

// Reserve claims up to n contiguous slots on the producer's ring.
// See [Ring.Reserve].
func (p *Producer[T]) Reserve(n int) (Reservation[T], bool) {
	return p.ring.Reserve(n)
}

// ReserveBackoff reserves with an adaptive spin-then-yield wait.
// See [Ring.ReserveBackoff].
func (p *Producer[T]) ReserveBackoff(n int) (Reservation[T], bool) {
	return p.ring.ReserveBackoff(n)
}

// Push sends a single element. Returns false when the ring is full; the
// element stays with the caller.
func (p *Producer[T]) Push(v T) bool {
	return p.ring.Push(v)
}

// Enqueue adds an element, reporting a full ring as ErrWouldBlock.
func (p *Producer[T]) Enqueue(elem *T) error {
	return p.ring.Enqueue(elem)
}

// Send writes as many of items as fit in one contiguous reservation and
// returns the number sent, possibly 0. Loop to send the rest.
func (p *Producer[T]) Send(items []T) int {
	res, ok := p.ring.Reserve(len(items))
	if !ok {
		return 0
	}
	n := copy(res.Slots(), items)
	res.Commit()
	return n
}

// Close closes the producer's ring. Advisory; see [Ring.Close].
func (p *Producer[T]) Close() {
	p.ring.Close()
}

// Closed reports whether the producer's ring has been closed.
func (p *Producer[T]) Closed() bool {
	return p.ring.Closed()
}
