// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"sort"
	"time"
)

const defaultMinRTTWindow = 30 * time.Second

// minRTTTracker answers the minimum acknowledged RTT over a sliding time
// window using a monotonic deque of (time, value) samples.
// Not thread-safe; the Engine serializes access.
type minRTTTracker struct {
	span  time.Duration
	deque []minRTTSample
}

type minRTTSample struct {
	t time.Time
	v time.Duration
}

func newMinRTTTracker(span time.Duration) *minRTTTracker {
	if span <= 0 {
		span = defaultMinRTTWindow
	}

	return &minRTTTracker{span: span}
}

// prune removes samples older than (now - span).
func (m *minRTTTracker) prune(now time.Time) {
	if len(m.deque) == 0 {
		return
	}

	cutoff := now.Add(-m.span)
	firstLive := sort.Search(len(m.deque), func(i int) bool {
		return !m.deque[i].t.Before(cutoff)
	})
	if firstLive > 0 {
		m.deque = m.deque[firstLive:]
	}
}

// push inserts a new sample, evicting older samples that can no longer be
// the window minimum so the deque stays monotonic increasing.
func (m *minRTTTracker) push(now time.Time, v time.Duration) {
	m.prune(now)

	for i := len(m.deque); i > 0 && m.deque[i-1].v >= v; i-- {
		m.deque = m.deque[:i-1]
	}

	m.deque = append(m.deque, minRTTSample{t: now, v: v})
}

// min reports the minimum live sample; ok is false when the window is empty.
func (m *minRTTTracker) min(now time.Time) (time.Duration, bool) {
	m.prune(now)

	if len(m.deque) == 0 {
		return 0, false
	}

	return m.deque[0].v, true
}
