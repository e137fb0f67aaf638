// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

// chunk is an outbound message awaiting window capacity: an externally
// assigned id plus its payload. Ids are opaque to the engine.
type chunk struct {
	id      MessageID
	payload []byte
}

const minQueueCap = 16

// sendQueue holds pending chunks in FIFO order: Enqueue appends at the back,
// window admission pops from the front, so messages leave in the order the
// caller produced them. No capacity limit is enforced here; backpressure, if
// any, belongs to the caller.
type sendQueue struct {
	buf   []chunk
	head  int
	tail  int
	count int
}

func newSendQueue() *sendQueue {
	return &sendQueue{buf: make([]chunk, minQueueCap)}
}

func (q *sendQueue) size() int {
	return q.count
}

func (q *sendQueue) push(c chunk) {
	q.growIfFull()
	q.buf[q.tail] = c
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
}

// pop removes and returns the oldest chunk; ok is false when the queue is
// empty.
func (q *sendQueue) pop() (chunk, bool) {
	if q.count == 0 {
		return chunk{}, false
	}
	c := q.buf[q.head]
	q.buf[q.head] = chunk{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--

	return c, true
}

func (q *sendQueue) growIfFull() {
	if q.count < len(q.buf) {
		return
	}

	newBuf := make([]chunk, q.count<<1)
	if q.tail > q.head {
		copy(newBuf, q.buf[q.head:q.tail])
	} else {
		n := copy(newBuf, q.buf[q.head:])
		copy(newBuf[n:], q.buf[:q.tail])
	}

	q.head = 0
	q.tail = q.count
	q.buf = newBuf
}
