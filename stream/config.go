// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import "time"

// Config tunes the adapter's waiting behavior. The core channel itself is
// configured separately via ringq.Config.
type Config struct {
	// PollInterval bounds how long an endpoint parks before re-checking
	// the rings even without a signal. The safety net for a missed
	// notify, and the knob that trades latency for batching.
	PollInterval time.Duration
	// BatchHint is how many elements the receiver pulls from the rings
	// per sweep. Larger batches amortize the sweep; smaller ones bound
	// per-element latency.
	BatchHint int
}

// DefaultConfig returns 10ms polling with 64-element batches.
func DefaultConfig() Config {
	return Config{PollInterval: 10 * time.Millisecond, BatchHint: 64}
}

// LowLatencyConfig returns 1ms polling with 16-element batches.
func LowLatencyConfig() Config {
	return Config{PollInterval: time.Millisecond, BatchHint: 16}
}

// HighThroughputConfig returns 50ms polling with 256-element batches.
func HighThroughputConfig() Config {
	return Config{PollInterval: 50 * time.Millisecond, BatchHint: 256}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.BatchHint <= 0 {
		c.BatchHint = d.BatchHint
	}
	return c
}
