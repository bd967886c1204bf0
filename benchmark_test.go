// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"testing"

	"code.hybscloud.com/ringq"
)

// Single-threaded hot paths. Cross-core throughput depends on topology;
// these pin the per-operation cost of the protocol itself.

func BenchmarkRingPushConsume(b *testing.B) {
	r := ringq.NewRing[uint64](4096)
	for i := 0; b.Loop(); i++ {
		if !r.Push(uint64(i)) {
			r.ConsumeBatch(func(uint64) {})
			r.Push(uint64(i))
		}
	}
}

func BenchmarkRingReserveCommit64(b *testing.B) {
	r := ringq.NewRing[uint64](4096)
	for b.Loop() {
		res, ok := r.Reserve(64)
		if !ok {
			r.ConsumeBatch(func(uint64) {})
			continue
		}
		slots := res.Slots()
		for i := range slots {
			slots[i] = uint64(i)
		}
		res.Commit()
	}
	r.ConsumeBatch(func(uint64) {})
}

func BenchmarkRingConsumeBatch(b *testing.B) {
	r := ringq.NewRing[uint64](4096)
	for b.Loop() {
		b.StopTimer()
		for i := range 4096 {
			r.Push(uint64(i))
		}
		b.StartTimer()
		r.ConsumeBatch(func(uint64) {})
	}
}

func BenchmarkChannelConsumeAll(b *testing.B) {
	ch := ringq.NewChannel[uint64](ringq.Config{RingBits: 10, MaxProducers: 8})
	producers := make([]*ringq.Producer[uint64], 8)
	for i := range producers {
		producers[i], _ = ch.Register()
	}
	for b.Loop() {
		b.StopTimer()
		for _, p := range producers {
			for i := range 128 {
				p.Push(uint64(i))
			}
		}
		b.StartTimer()
		ch.ConsumeAll(func(uint64) {})
	}
}

func BenchmarkStackRingPushConsume(b *testing.B) {
	r := ringq.NewStackRing[uint64]()
	for i := 0; b.Loop(); i++ {
		if !r.Push(uint64(i)) {
			r.ConsumeBatch(func(uint64) {})
			r.Push(uint64(i))
		}
	}
}
