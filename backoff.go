// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"runtime"

	"code.hybscloud.com/spin"
)

const (
	backoffSpinLimit  = 6  // 2^6 = 64 pauses max before yielding
	backoffYieldLimit = 10 // then give up
)

// Backoff is an adaptive wait-hint schedule for retry loops.
//
// It escalates from CPU pause hints through cooperative yields to a
// "give up" signal, and never blocks on a kernel primitive. The zero
// value is ready to use:
//
//	b := ringq.Backoff{}
//	for !p.Push(v) {
//	    if b.Completed() {
//	        break // caller decides: park, drop, or return
//	    }
//	    b.Snooze()
//	}
type Backoff struct {
	step uint32
}

// Spin executes 2^step CPU pause hints and advances the schedule.
// Appropriate when the awaited condition is flipped by another core
// within tens of nanoseconds.
func (b *Backoff) Spin() {
	sw := spin.Wait{}
	for range 1 << min(b.step, backoffSpinLimit) {
		sw.Once()
	}
	if b.step <= backoffSpinLimit {
		b.step++
	}
}

// Snooze performs one step of the full schedule: pause hints while the
// step is at or below the spin limit, cooperative yields while it is at or
// below the yield limit, and a no-op once Completed.
func (b *Backoff) Snooze() {
	if b.step <= backoffSpinLimit {
		b.Spin()
		return
	}
	if b.step <= backoffYieldLimit {
		runtime.Gosched()
		b.step++
	}
}

// Completed reports that the schedule is exhausted. Further Snooze calls do
// nothing; the caller should stop spinning and take a higher-level action.
func (b *Backoff) Completed() bool {
	return b.step > backoffYieldLimit
}

// Reset rewinds the schedule for the next wait cycle. Call after every
// successful operation so one slow stretch does not poison later waits.
func (b *Backoff) Reset() {
	b.step = 0
}
