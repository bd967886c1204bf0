// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"testing"

	"code.hybscloud.com/ringq"
)

// TestReservationPartialCommit publishes a prefix of the window; the
// remainder stays invisible and unpublished.
func TestReservationPartialCommit(t *testing.T) {
	r := ringq.NewRing[int](8)

	res, ok := r.Reserve(5)
	if !ok || res.Len() != 5 {
		t.Fatalf("Reserve(5): ok=%v len=%d", ok, res.Len())
	}

	res.Slots()[0] = 100
	res.Slots()[1] = 200
	res.CommitPartial(2)

	if r.Len() != 2 {
		t.Fatalf("Len after partial commit: got %d, want 2", r.Len())
	}

	var got []int
	if n := r.ConsumeBatch(func(v int) { got = append(got, v) }); n != 2 {
		t.Fatalf("ConsumeBatch: got %d, want 2", n)
	}
	if got[0] != 100 || got[1] != 200 {
		t.Fatalf("drained %v, want [100 200]", got)
	}

	// The uncommitted slots are handed out again.
	res, ok = r.Reserve(6)
	if !ok || res.Len() != 6 {
		t.Fatalf("Reserve after partial commit: ok=%v len=%d, want 6", ok, res.Len())
	}
	res.Abandon()
}

// TestReservationCommitZero publishes nothing and leaves the ring usable.
func TestReservationCommitZero(t *testing.T) {
	r := ringq.NewRing[int](4)

	res, _ := r.Reserve(3)
	res.CommitPartial(0)
	if r.Len() != 0 {
		t.Fatalf("Len after CommitPartial(0): got %d, want 0", r.Len())
	}

	if !r.Push(7) {
		t.Fatal("Push after zero commit failed")
	}
}

// TestReservationAbandon drops the window: tail unmoved, nothing visible,
// and the same physical slots come back from the next Reserve.
func TestReservationAbandon(t *testing.T) {
	r := ringq.NewRing[int](8)

	res, ok := r.Reserve(3)
	if !ok {
		t.Fatal("Reserve(3) failed")
	}
	res.Slots()[0] = 42 // half-written element, then abandoned
	res.Abandon()

	if r.Len() != 0 {
		t.Fatalf("Len after abandon: got %d, want 0", r.Len())
	}
	if n := r.ConsumeBatch(func(int) {}); n != 0 {
		t.Fatalf("consumer saw %d elements after abandon, want 0", n)
	}

	// Abandoning twice is a no-op.
	res.Abandon()

	// The next reservation overlaps the same slots and starts clean.
	res2, ok := r.Reserve(3)
	if !ok || res2.Len() != 3 {
		t.Fatalf("Reserve after abandon: ok=%v len=%d", ok, res2.Len())
	}
	if res2.Slots()[0] != 0 {
		t.Fatalf("abandoned slot leaked value %d", res2.Slots()[0])
	}
	res2.Slots()[0] = 1
	res2.Slots()[1] = 2
	res2.Slots()[2] = 3
	res2.Commit()

	var got []int
	r.ConsumeBatch(func(v int) { got = append(got, v) })
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("drained %v, want [1 2 3]", got)
	}
}

// TestReservationAbandonReleasesReferences verifies an abandoned window
// does not keep written heap values reachable through the buffer.
func TestReservationAbandonReleasesReferences(t *testing.T) {
	r := ringq.NewRing[[]byte](4)

	res, _ := r.Reserve(2)
	res.Slots()[0] = make([]byte, 1024)
	res.Abandon()

	res2, _ := r.Reserve(2)
	if res2.Slots()[0] != nil {
		t.Fatal("abandoned slot still references its payload")
	}
	res2.Abandon()
}
