// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/ringq"
)

func testConfig(bits, producers int) ringq.Config {
	return ringq.Config{RingBits: bits, MaxProducers: producers}
}

// =============================================================================
// Registration
// =============================================================================

func TestChannelRegister(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(2, 2))

	p0, err := ch.Register()
	if err != nil {
		t.Fatalf("Register 0: %v", err)
	}
	p1, err := ch.Register()
	if err != nil {
		t.Fatalf("Register 1: %v", err)
	}
	if p0.ID() != 0 || p1.ID() != 1 {
		t.Fatalf("IDs: got %d, %d, want 0, 1", p0.ID(), p1.ID())
	}
	if ch.ProducerCount() != 2 {
		t.Fatalf("ProducerCount: got %d, want 2", ch.ProducerCount())
	}

	if _, err := ch.Register(); !errors.Is(err, ringq.ErrTooManyProducers) {
		t.Fatalf("Register past limit: got %v, want ErrTooManyProducers", err)
	}
	// The failed attempt must not corrupt the count.
	if ch.ProducerCount() != 2 {
		t.Fatalf("ProducerCount after failure: got %d, want 2", ch.ProducerCount())
	}
}

func TestChannelRegisterClosed(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(2, 4))
	p, err := ch.Register()
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	p.Push(1)
	ch.Close()

	if !ch.IsClosed() {
		t.Fatal("IsClosed after Close: got false")
	}
	if _, err := ch.Register(); !errors.Is(err, ringq.ErrClosed) {
		t.Fatalf("Register on closed: got %v, want ErrClosed", err)
	}

	// Close affects registration only: existing producers keep writing
	// and pending elements still drain.
	if !p.Push(2) {
		t.Fatal("Push after Close rejected")
	}
	var got []int
	ch.ConsumeAll(func(v int) { got = append(got, v) })
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("drained %v, want [1 2]", got)
	}
}

func TestChannelConfigValidation(t *testing.T) {
	bad := []ringq.Config{
		{RingBits: 0, MaxProducers: 4},
		{RingBits: 21, MaxProducers: 4},
		{RingBits: 8, MaxProducers: 0},
		{RingBits: 8, MaxProducers: 129},
	}
	for _, cfg := range bad {
		if cfg.Validate() == nil {
			t.Fatalf("Validate(%+v): expected error", cfg)
		}
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("NewChannel(%+v): expected panic", cfg)
				}
			}()
			ringq.NewChannel[int](cfg)
		}()
	}

	good := []ringq.Config{
		{RingBits: 1, MaxProducers: 1},
		{RingBits: 20, MaxProducers: 1},
		{RingBits: 8, MaxProducers: 128},
		ringq.DefaultConfig(),
		ringq.LowLatencyConfig(),
		ringq.HighThroughputConfig(),
	}
	for _, cfg := range good {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate(%+v): %v", cfg, err)
		}
	}

	if got := testConfig(12, 1).Capacity(); got != 4096 {
		t.Fatalf("Capacity: got %d, want 4096", got)
	}
}

// =============================================================================
// Fan-in consumption
// =============================================================================

// TestChannelFanIn drains three producers in one sweep: the output is the
// concatenation of the per-ring FIFO runs in registration order.
func TestChannelFanIn(t *testing.T) {
	ch := ringq.NewChannel[string](testConfig(2, 3))

	p0, _ := ch.Register()
	p1, _ := ch.Register()
	p2, _ := ch.Register()

	p0.Push("a")
	p0.Push("b")
	p1.Push("c")
	p2.Push("d")
	p2.Push("e")
	p2.Push("f")

	var got []string
	if n := ch.ConsumeAll(func(v string) { got = append(got, v) }); n != 6 {
		t.Fatalf("ConsumeAll: got %d, want 6", n)
	}

	want := []string{"a", "b", "c", "d", "e", "f"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sweep order: got %v, want %v", got, want)
		}
	}

	if n := ch.ConsumeAll(func(string) {}); n != 0 {
		t.Fatalf("second sweep: got %d, want 0", n)
	}
}

// TestChannelConsumeAllUpTo verifies the budget is spread in ring order
// and stops exactly at the limit.
func TestChannelConsumeAllUpTo(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(3, 2))

	p0, _ := ch.Register()
	p1, _ := ch.Register()
	for i := range 3 {
		p0.Push(i + 10)
		p1.Push(i + 20)
	}

	var got []int
	if n := ch.ConsumeAllUpTo(4, func(v int) { got = append(got, v) }); n != 4 {
		t.Fatalf("ConsumeAllUpTo(4): got %d, want 4", n)
	}
	want := []int{10, 11, 12, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("budgeted sweep: got %v, want %v", got, want)
		}
	}

	// The rest comes on the next call.
	got = got[:0]
	if n := ch.ConsumeAllUpTo(100, func(v int) { got = append(got, v) }); n != 2 {
		t.Fatalf("second ConsumeAllUpTo: got %d, want 2", n)
	}
	if got[0] != 21 || got[1] != 22 {
		t.Fatalf("remainder: got %v, want [21 22]", got)
	}
}

func TestChannelConsumeRefShapes(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(3, 2))
	p0, _ := ch.Register()
	p1, _ := ch.Register()
	p0.Push(1)
	p1.Push(2)

	var sum int
	if n := ch.ConsumeAllRef(func(v *int) { sum += *v }); n != 2 {
		t.Fatalf("ConsumeAllRef: got %d, want 2", n)
	}
	if sum != 3 {
		t.Fatalf("sum: got %d, want 3", sum)
	}

	p0.Push(5)
	sum = 0
	if n := ch.ConsumeAllUpToRef(1, func(v *int) { sum += *v }); n != 1 {
		t.Fatalf("ConsumeAllUpToRef: got %d, want 1", n)
	}
	if sum != 5 {
		t.Fatalf("sum: got %d, want 5", sum)
	}
}

// =============================================================================
// Producer conveniences
// =============================================================================

func TestProducerSend(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(2, 1))
	p, _ := ch.Register()

	// First send lands entirely (4 slots free, contiguous from 0).
	if n := p.Send([]int{1, 2, 3}); n != 3 {
		t.Fatalf("Send: got %d, want 3", n)
	}
	// Only one slot left.
	if n := p.Send([]int{4, 5}); n != 1 {
		t.Fatalf("Send on nearly-full: got %d, want 1", n)
	}
	// Full.
	if n := p.Send([]int{6}); n != 0 {
		t.Fatalf("Send on full: got %d, want 0", n)
	}
	if n := p.Send(nil); n != 0 {
		t.Fatalf("Send(nil): got %d, want 0", n)
	}

	var got []int
	ch.ConsumeAll(func(v int) { got = append(got, v) })
	want := []int{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("drained %v, want %v", got, want)
		}
	}
}

func TestProducerEnqueueAndClose(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(1, 2))
	p, _ := ch.Register()

	v := 1
	if err := p.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	v = 2
	if err := p.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	v = 3
	if err := p.Enqueue(&v); !errors.Is(err, ringq.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	p.Close()
	if !p.Closed() {
		t.Fatal("Closed after Close: got false")
	}
	// Producer close is per-ring, not channel-wide.
	if ch.IsClosed() {
		t.Fatal("producer Close leaked to channel")
	}
}

// TestChannelRingAccessor covers dedicated-consumer topologies.
func TestChannelRingAccessor(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(2, 2))
	p, _ := ch.Register()
	p.Push(41)

	r := ch.Ring(0)
	if r == nil {
		t.Fatal("Ring(0) returned nil")
	}
	v, err := r.Dequeue()
	if err != nil || v != 41 {
		t.Fatalf("Dequeue via ring accessor: %d, %v", v, err)
	}

	if ch.Ring(-1) != nil || ch.Ring(2) != nil {
		t.Fatal("out-of-range Ring access should return nil")
	}
}

// =============================================================================
// Metrics
// =============================================================================

func TestChannelMetrics(t *testing.T) {
	cfg := testConfig(4, 2)
	cfg.EnableMetrics = true
	ch := ringq.NewChannel[int](cfg)

	p0, _ := ch.Register()
	p1, _ := ch.Register()

	res, _ := p0.Reserve(3)
	for i := range res.Slots() {
		res.Slots()[i] = i
	}
	res.Commit()
	p1.Push(7)

	ch.ConsumeAll(func(int) {})

	m := ch.Metrics()
	if m.MessagesSent != 4 {
		t.Fatalf("MessagesSent: got %d, want 4", m.MessagesSent)
	}
	if m.MessagesReceived != 4 {
		t.Fatalf("MessagesReceived: got %d, want 4", m.MessagesReceived)
	}
	if m.BatchesSent != 2 {
		t.Fatalf("BatchesSent: got %d, want 2", m.BatchesSent)
	}
	if m.BatchesReceived != 2 {
		t.Fatalf("BatchesReceived: got %d, want 2", m.BatchesReceived)
	}
}

func TestChannelMetricsDisabled(t *testing.T) {
	ch := ringq.NewChannel[int](testConfig(4, 1))
	p, _ := ch.Register()
	p.Push(1)
	ch.ConsumeAll(func(int) {})

	if m := ch.Metrics(); m != (ringq.MetricsSnapshot{}) {
		t.Fatalf("metrics counted while disabled: %+v", m)
	}
}
