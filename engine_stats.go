// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import "sync/atomic"

// engineStats counts engine activity for diagnostics. Counters are atomic so
// a snapshot can be taken from another goroutine while the owner drives the
// engine.
type engineStats struct {
	nTicks           uint64
	nAcksRecorded    uint64
	nSamplesRecorded uint64
	nBackoffs        uint64
	nRetransmissions uint64
}

func (s *engineStats) incTicks() {
	atomic.AddUint64(&s.nTicks, 1)
}

func (s *engineStats) incAcksRecorded() {
	atomic.AddUint64(&s.nAcksRecorded, 1)
}

func (s *engineStats) incSamplesRecorded() {
	atomic.AddUint64(&s.nSamplesRecorded, 1)
}

func (s *engineStats) incBackoffs() {
	atomic.AddUint64(&s.nBackoffs, 1)
}

func (s *engineStats) addRetransmissions(n uint64) {
	atomic.AddUint64(&s.nRetransmissions, n)
}

func (s *engineStats) snapshot() Stats {
	return Stats{
		Ticks:           atomic.LoadUint64(&s.nTicks),
		AcksRecorded:    atomic.LoadUint64(&s.nAcksRecorded),
		SamplesRecorded: atomic.LoadUint64(&s.nSamplesRecorded),
		Backoffs:        atomic.LoadUint64(&s.nBackoffs),
		Retransmissions: atomic.LoadUint64(&s.nRetransmissions),
	}
}

// Stats is a point-in-time snapshot of an Engine's counters.
type Stats struct {
	// Ticks is the number of reconciliation passes run.
	Ticks uint64
	// AcksRecorded is the number of acks that recorded a new RTT.
	AcksRecorded uint64
	// SamplesRecorded is the number of samples fed to the RTO estimator.
	SamplesRecorded uint64
	// Backoffs is the number of passes that shrank the window.
	Backoffs uint64
	// Retransmissions is the total count of slot (re)transmissions beyond
	// the first.
	Retransmissions uint64
}
