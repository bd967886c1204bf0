// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ringq

// RaceEnabled is true when the race detector is active. Used by tests to
// skip concurrent ring tests: the slot accesses are protected by
// acquire-release ordering on the tail/head counters, a happens-before
// relationship the detector cannot observe, so it reports false positives.
const RaceEnabled = true
