// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// Metrics counts ring traffic. Producer-side counters are bumped at commit,
// consumer-side counters at head advance, so each counter has a single
// writer and plain Add suffices. Counting happens only when the owning
// ring's config enables it.
type Metrics struct {
	messagesSent     atomix.Uint64
	messagesReceived atomix.Uint64
	batchesSent      atomix.Uint64
	batchesReceived  atomix.Uint64
	reserveRetries   atomix.Uint64
}

func (m *Metrics) addSent(n uint64) {
	m.messagesSent.Add(n)
	m.batchesSent.Add(1)
}

func (m *Metrics) addReceived(n uint64) {
	m.messagesReceived.Add(n)
	m.batchesReceived.Add(1)
}

func (m *Metrics) addReserveRetries(n uint64) {
	m.reserveRetries.Add(n)
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		MessagesSent:     m.messagesSent.Load(),
		MessagesReceived: m.messagesReceived.Load(),
		BatchesSent:      m.batchesSent.Load(),
		BatchesReceived:  m.batchesReceived.Load(),
		ReserveRetries:   m.reserveRetries.Load(),
	}
}

// MetricsSnapshot is a plain copy of ring counters, safe to pass around.
type MetricsSnapshot struct {
	MessagesSent     uint64
	MessagesReceived uint64
	BatchesSent      uint64
	BatchesReceived  uint64
	ReserveRetries   uint64
}

func (s *MetricsSnapshot) merge(o MetricsSnapshot) {
	s.MessagesSent += o.MessagesSent
	s.MessagesReceived += o.MessagesReceived
	s.BatchesSent += o.BatchesSent
	s.BatchesReceived += o.BatchesReceived
	s.ReserveRetries += o.ReserveRetries
}
