// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

// Package rtx implements congestion control and retransmission scheduling
// for a reliable, message-oriented transport: which outstanding messages to
// (re)send, when the next retransmission pass is due, and how large the
// in-flight window may grow. It performs no I/O; the surrounding transport
// owns sockets, framing, id allocation, and timers.
package rtx

import (
	"fmt"
	"time"

	"github.com/pion/logging"
	"github.com/pion/randutil"
)

var globalMathRandomGenerator = randutil.NewMathRandomGenerator() // nolint:gochecknoglobals

// MessageID identifies one outbound message. Ids are assigned by the caller
// and must be unique among currently queued and in-flight messages; the
// engine never generates or interprets them.
type MessageID uint64

// Config collects the construction parameters for an Engine. Prefer the
// functional options with NewEngine over filling it directly.
type Config struct {
	// Name tags the engine's log lines. Randomized when empty.
	Name string

	LoggerFactory logging.LoggerFactory

	// RTOMin / RTOMax clamp the blended timeout estimate.
	// Defaults: 100ms / 60s.
	RTOMin time.Duration
	RTOMax time.Duration

	// MinRTTWindow is the span of the sliding window behind MinRTT.
	// Default: 30s.
	MinRTTWindow time.Duration
}

// Engine decides which outstanding messages to (re)send, when the next
// reconciliation pass is due, and how many messages may be in flight, based
// on acknowledgment feedback and a strong/weak-sample RTO estimator.
//
// The engine owns a single deadline: each Tick returns the next one, and the
// caller invokes Tick again when it elapses. Engine is not safe for
// unsynchronized concurrent use; the owner must serialize every call, since
// Tick reads then mutates ack state non-atomically. Scheduler provides that
// serialization when no external event loop does.
type Engine struct {
	queue      *sendQueue
	wnd        *window
	estimator  *rtoEstimator
	controller *windowController

	// windowMax bounds the relevant prefix: how many leading window slots
	// are (re)transmitted and attempt-counted per pass. Never below 1.
	windowMax uint

	minRTT *minRTTTracker
	stats  *engineStats

	log  logging.LeveledLogger
	name string
}

// NewEngine builds an Engine with capacity 1, a halted window controller,
// and a 2 second initial RTO.
func NewEngine(opts ...Option) (*Engine, error) {
	var config Config
	for _, opt := range opts {
		if err := opt.apply(&config); err != nil {
			return nil, err
		}
	}
	if config.LoggerFactory == nil {
		config.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	if config.Name == "" {
		config.Name = fmt.Sprintf("rtx-%08x", globalMathRandomGenerator.Uint32())
	}

	return &Engine{
		queue:      newSendQueue(),
		wnd:        &window{},
		estimator:  newRTOEstimator(config.RTOMin, config.RTOMax),
		controller: newWindowController(),
		windowMax:  1,
		minRTT:     newMinRTTTracker(config.MinRTTWindow),
		stats:      &engineStats{},
		log:        config.LoggerFactory.NewLogger("rtx"),
		name:       config.Name,
	}, nil
}

// Enqueue admits a new outbound message into the send queue, behind every
// message enqueued before it. The id must be unique among currently queued
// and in-flight messages; the engine does not verify this. The engine takes
// ownership of payload.
func (e *Engine) Enqueue(id MessageID, payload []byte) {
	e.queue.push(chunk{id: id, payload: payload})
}

// NotifyAck records a measured RTT for an in-flight message. Unknown ids and
// repeated acks are benign no-ops: acks can legitimately arrive duplicated,
// stale, or for ids already pruned, and a recorded RTT is never overwritten.
// The acked slot is removed, and its sample consumed by the estimator, on
// the next Tick.
func (e *Engine) NotifyAck(id MessageID, rtt time.Duration) {
	if !e.wnd.markAcked(id, rtt) {
		return
	}
	if rtt > 0 {
		e.minRTT.push(time.Now(), rtt)
	}
	e.stats.incAcksRecorded()
	e.log.Tracef("[%s] ack id=%d rtt=%v", e.name, id, rtt)
}

// Tick runs one reconciliation pass. The caller invokes it when the deadline
// returned by the previous Tick elapses; calling earlier is harmless, the
// engine is stateless about why it was invoked.
//
// The pass prunes acknowledged slots and feeds their samples to the RTO
// estimator, backs capacity off or grows it, refills the window from the
// send queue, and returns the next deadline together with the ids to
// (re)transmit now. The whole relevant prefix is resent every pass; there
// are no per-message timers.
func (e *Engine) Tick(now time.Time) (time.Time, []MessageID) {
	// Acks are counted before pruning so the batch weight covers exactly
	// the samples this pass folds into the estimator.
	acked := e.wnd.countAckedIn(e.relevantLen())

	pruned := e.wnd.pruneAcked(func(attempts uint, rtt time.Duration) {
		if acked == 0 {
			// The ack landed outside the relevant prefix; prune without
			// sampling rather than divide by a zero batch weight.
			return
		}
		e.estimator.recordSample(attempts, rtt, acked)
		e.stats.incSamplesRecorded()
	})

	unacked := e.wnd.bumpAttempts(e.relevantLen())

	before := e.windowMax
	if unacked > 0 {
		e.windowMax = e.controller.onBackoff(e.windowMax, unacked)
		e.stats.incBackoffs()
		e.stats.addRetransmissions(uint64(unacked))
	} else {
		e.windowMax = e.controller.onClean(e.windowMax)
	}

	var admitted int
	for uint(e.wnd.len()) < e.windowMax {
		c, ok := e.queue.pop()
		if !ok {
			break
		}
		e.wnd.admit(c)
		admitted++
	}

	deadline := now.Add(e.estimator.getRTO())
	ids := e.wnd.idsIn(e.relevantLen())

	e.stats.incTicks()
	e.log.Tracef("[%s] tick acked=%d pruned=%d unacked=%d admitted=%d cwnd=%d->%d state=%s rto=%v",
		e.name, acked, pruned, unacked, admitted, before, e.windowMax, e.controller.state, e.estimator.getRTO())

	return deadline, ids
}

// PayloadsFor returns, in window order, the payload of every slot whose id
// is in ids. Callers use it after Tick to obtain the bytes to put on the
// wire; it neither mutates nor consumes slots and may be called repeatedly.
func (e *Engine) PayloadsFor(ids []MessageID) [][]byte {
	return e.wnd.payloadsFor(ids)
}

// CurrentRTO returns the current retransmission-timeout estimate.
func (e *Engine) CurrentRTO() time.Duration {
	return e.estimator.getRTO()
}

// MinRTT returns the smallest RTT acked within the configured sliding
// window; ok is false when no live sample exists. Diagnostic only.
func (e *Engine) MinRTT() (rtt time.Duration, ok bool) {
	return e.minRTT.min(time.Now())
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

// relevantLen bounds the relevant prefix by the current capacity.
func (e *Engine) relevantLen() int {
	if n := int(e.windowMax); n < e.wnd.len() {
		return n
	}

	return e.wnd.len()
}
