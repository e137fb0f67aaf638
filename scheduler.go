// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"math"
	"sync"
	"time"

	"github.com/pion/logging"
)

// TransmitFunc carries one reconciliation pass's output to the wire: the ids
// selected for (re)transmission and their payloads in matching window order.
// It is invoked outside the scheduler's lock, so it may call back into the
// scheduler (but must not block indefinitely, or retransmission stalls).
type TransmitFunc func(ids []MessageID, payloads [][]byte)

type schedulerState uint8

const (
	schedulerStopped schedulerState = iota
	schedulerStarted
	schedulerClosed
)

// Scheduler drives an Engine when the surrounding transport has no event
// loop of its own: it owns the single retransmission deadline, re-arms its
// timer from every Tick, and serializes all engine access behind its mutex.
// Enqueue and NotifyAck on the Scheduler are safe for concurrent use.
type Scheduler struct {
	engine   *Engine
	transmit TransmitFunc
	timer    *time.Timer

	mutex   sync.Mutex
	state   schedulerState
	pending uint8

	log  logging.LeveledLogger
	name string
}

// NewScheduler wires a scheduler to an engine. The engine must not be driven
// directly once the scheduler owns it. A nil loggerFactory falls back to the
// default logger.
func NewScheduler(engine *Engine, transmit TransmitFunc, loggerFactory logging.LoggerFactory) (*Scheduler, error) {
	if engine == nil {
		return nil, errNilEngine
	}
	if transmit == nil {
		return nil, errNilTransmitFunc
	}
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	s := &Scheduler{
		engine:   engine,
		transmit: transmit,
		log:      loggerFactory.NewLogger("rtx"),
		name:     engine.name,
	}

	s.timer = time.AfterFunc(math.MaxInt64, s.fire)
	s.timer.Stop()

	return s, nil
}

// Enqueue admits a new outbound message; see Engine.Enqueue.
func (s *Scheduler) Enqueue(id MessageID, payload []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.engine.Enqueue(id, payload)
}

// NotifyAck records a measured RTT for an in-flight id; see Engine.NotifyAck.
func (s *Scheduler) NotifyAck(id MessageID, rtt time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.engine.NotifyAck(id, rtt)
}

// Start runs an immediate first pass, hands its output to the transmit
// callback, and arms the timer for the returned deadline. It reports false
// when the scheduler is already running or closed.
func (s *Scheduler) Start() bool {
	s.mutex.Lock()
	if s.state != schedulerStopped {
		s.mutex.Unlock()

		return false
	}
	s.state = schedulerStarted
	ids, payloads := s.runPassLocked()
	s.mutex.Unlock()

	if len(ids) > 0 {
		s.transmit(ids, payloads)
	}

	return true
}

// fire is the timer callback: one reconciliation pass, then re-arm.
func (s *Scheduler) fire() {
	s.mutex.Lock()
	if s.pending > 0 {
		s.pending--
	}
	if s.state != schedulerStarted {
		s.mutex.Unlock()

		return
	}
	ids, payloads := s.runPassLocked()
	s.mutex.Unlock()

	if len(ids) > 0 {
		s.transmit(ids, payloads)
	}
}

// runPassLocked ticks the engine, arms the timer for the new deadline, and
// returns the pass output. Callers hold s.mutex and invoke the transmit
// callback after releasing it.
func (s *Scheduler) runPassLocked() ([]MessageID, [][]byte) {
	now := time.Now()
	deadline, ids := s.engine.Tick(now)
	payloads := s.engine.PayloadsFor(ids)

	s.pending++
	s.timer.Reset(deadline.Sub(now))

	return ids, payloads
}

// Stop disarms the timer and keeps the scheduler reusable; a later Start
// resumes from the engine's current state.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == schedulerStarted {
		if s.timer.Stop() {
			if s.pending > 0 {
				s.pending--
			}
		}
		s.state = schedulerStopped
	}
}

// Close stops the scheduler for good; subsequent Start calls fail. In-flight
// slots are abandoned with the engine, there is no drain protocol.
func (s *Scheduler) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == schedulerStarted && s.timer.Stop() {
		if s.pending > 0 {
			s.pending--
		}
	}
	s.state = schedulerClosed

	stats := s.engine.Stats()
	s.log.Debugf("[%s] stats nTicks : %d", s.name, stats.Ticks)
	s.log.Debugf("[%s] stats nAcks : %d", s.name, stats.AcksRecorded)
	s.log.Debugf("[%s] stats nSamples : %d", s.name, stats.SamplesRecorded)
	s.log.Debugf("[%s] stats nBackoffs : %d", s.name, stats.Backoffs)
	s.log.Debugf("[%s] stats nRetransmits: %d", s.name, stats.Retransmissions)
}

// isRunning is only for tests.
func (s *Scheduler) isRunning() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state == schedulerStarted
}
