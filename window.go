// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import "time"

// windowSlot tracks one message in flight or pending first transmission.
// attempts counts the reconciliation passes the slot spent in the relevant
// prefix while unacknowledged. measuredRTT is recorded at most once, by ack
// intake, and an acked slot is guaranteed to be removed on the next pass.
type windowSlot struct {
	id          MessageID
	attempts    uint
	acked       bool
	measuredRTT time.Duration
	payload     []byte
}

// window is the ordered collection of slots currently occupying transmission
// capacity. Slots past the relevant prefix stay alive and ackable but are
// neither retransmitted nor attempt-counted until capacity grows back over
// them; shrinking capacity never drops already-sent data.
type window struct {
	slots []windowSlot
}

func (w *window) len() int {
	return len(w.slots)
}

// admit transfers one chunk from the send queue into a fresh slot at the
// back of the window.
func (w *window) admit(c chunk) {
	w.slots = append(w.slots, windowSlot{id: c.id, payload: c.payload})
}

// markAcked records the measured RTT on the first slot with the given id.
// It reports whether a new measurement was recorded: unknown ids and slots
// that were already acked leave the window untouched, so duplicate and stale
// acks are benign.
func (w *window) markAcked(id MessageID, rtt time.Duration) bool {
	for i := range w.slots {
		if w.slots[i].id != id {
			continue
		}
		if w.slots[i].acked {
			return false
		}
		w.slots[i].acked = true
		w.slots[i].measuredRTT = rtt

		return true
	}

	return false
}

// countAckedIn returns how many of the first n slots are acknowledged.
func (w *window) countAckedIn(n int) int {
	var acked int
	for i := 0; i < n && i < len(w.slots); i++ {
		if w.slots[i].acked {
			acked++
		}
	}

	return acked
}

// pruneAcked removes every acknowledged slot, anywhere in the window, and
// reports each removed slot's attempt count and measured RTT through fn in
// window order. Returns the number of slots removed.
func (w *window) pruneAcked(fn func(attempts uint, rtt time.Duration)) int {
	kept := w.slots[:0]
	var removed int
	for i := range w.slots {
		if w.slots[i].acked {
			removed++
			if fn != nil {
				fn(w.slots[i].attempts, w.slots[i].measuredRTT)
			}

			continue
		}
		kept = append(kept, w.slots[i])
	}
	// Release pruned payloads held past the new length.
	for i := len(kept); i < len(w.slots); i++ {
		w.slots[i] = windowSlot{}
	}
	w.slots = kept

	return removed
}

// bumpAttempts increments the attempt counter of the first n slots and
// returns how many were bumped.
func (w *window) bumpAttempts(n int) int {
	if n > len(w.slots) {
		n = len(w.slots)
	}
	for i := 0; i < n; i++ {
		w.slots[i].attempts++
	}

	return n
}

// idsIn returns the ids of the first n slots.
func (w *window) idsIn(n int) []MessageID {
	if n > len(w.slots) {
		n = len(w.slots)
	}
	ids := make([]MessageID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, w.slots[i].id)
	}

	return ids
}

// payloadsFor returns, in window order, the payload of every slot whose id
// is in ids. Slots are neither mutated nor consumed.
func (w *window) payloadsFor(ids []MessageID) [][]byte {
	wanted := make(map[MessageID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	payloads := make([][]byte, 0, len(ids))
	for i := range w.slots {
		if _, ok := wanted[w.slots[i].id]; ok {
			payloads = append(payloads, w.slots[i].payload)
		}
	}

	return payloads
}
