// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringq provides a bounded MPSC channel built from per-producer
// SPSC rings.
//
// Instead of contending on one shared queue, every registered producer owns
// a dedicated single-producer single-consumer ring. A single consumer sweeps
// the rings in registration order. Producers never touch each other's cache
// lines, and the consumer pays one atomic publication per ring per sweep,
// regardless of how many elements it drains.
//
// # Quick Start
//
//	ch := ringq.NewChannel[uint64](ringq.DefaultConfig())
//	p, err := ch.Register()
//	if err != nil {
//	    // ErrTooManyProducers or ErrClosed
//	}
//
//	// Single-item send
//	p.Push(42)
//
//	// Zero-copy batch send
//	if res, ok := p.Reserve(4); ok {
//	    slots := res.Slots()
//	    for i := range slots {
//	        slots[i] = uint64(i)
//	    }
//	    res.Commit()
//	}
//
//	// Batch drain: one head update covers everything consumed
//	n := ch.ConsumeAll(func(v uint64) {
//	    process(v)
//	})
//
// # Reserve / Commit
//
// Reserve returns a write window over a contiguous run of free slots. The
// window never wraps the ring boundary, so it may be shorter than requested;
// loop until you have written everything:
//
//	for sent < len(items) {
//	    res, ok := p.Reserve(len(items) - sent)
//	    if !ok {
//	        continue // ring full, consumer behind
//	    }
//	    n := copy(res.Slots(), items[sent:])
//	    res.Commit()
//	    sent += n
//	}
//
// A reservation is single-use. Commit publishes every reserved slot,
// CommitPartial publishes a prefix, Abandon discards the window without
// advancing the ring. Until one of those is called nothing is visible to
// the consumer.
//
// # Consumption
//
// The consumer-side entry points come in two shapes. The owned shape hands
// each element to the handler by value and releases the slot, which is the
// zero-copy path for element types that carry heap references:
//
//	ch.ConsumeAll(func(ev Event) { sink.Add(ev) })
//
// The Ref shape passes a pointer into the slot, valid only for the duration
// of the call. It avoids copying large structs the handler only inspects:
//
//	ch.ConsumeAllRef(func(ev *Event) { stats.observe(ev.Size) })
//
// ConsumeAllUpTo bounds the work done in one call. Every call starts at the
// first ring and offers each ring the remaining budget, so an early ring
// holding at least that many elements takes all of it and later rings are
// not reached in that call.
//
// # Backpressure
//
// A full ring is not an error. Reserve returns ok=false and Push returns
// false; the element stays with the caller. Spin politely with Backoff
// before deciding to drop or to park externally:
//
//	b := ringq.Backoff{}
//	for !p.Push(v) {
//	    if b.Completed() {
//	        return false // consumer is stuck, caller decides
//	    }
//	    b.Snooze()
//	}
//
// The Enqueue/Dequeue convenience surface reports the same condition as
// [ErrWouldBlock] for code that prefers the error-returning idiom:
//
//	if err := p.Enqueue(&v); ringq.IsWouldBlock(err) {
//	    // ring full - handle backpressure
//	}
//
// # Ordering
//
// Elements from one producer reach the consumer in the order that producer
// committed them. No ordering is promised across producers; a sweep
// concatenates per-ring FIFO runs in registration order.
//
// # Close Semantics
//
// Close is a one-way flag that only stops registration. Existing producers
// keep writing and the consumer keeps draining; nothing is interrupted and
// nothing is dropped.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but cannot
// observe happens-before edges established through acquire-release atomic
// orderings on separate variables. The ring protocol protects its slots with
// exactly such edges (release store on tail, acquire load on tail, and
// symmetrically for head). The algorithms are correct; the detector reports
// false positives on the slot accesses. Tests incompatible with race
// detection are skipped via the RaceEnabled flag.
//
// # Invariant Checks
//
// Building with -tags ringqcheck compiles in runtime checks for the ring
// invariants (bounded count, single use of a reservation, commit within
// reservation).
// The default build carries none of them.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package ringq
