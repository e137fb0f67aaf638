// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendQueue(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := newSendQueue()
		for i := MessageID(0); i < 3; i++ {
			q.push(chunk{id: i})
		}
		assert.Equal(t, 3, q.size(), "should hold three")

		for i := MessageID(0); i < 3; i++ {
			c, ok := q.pop()
			assert.True(t, ok, "should pop")
			assert.Equal(t, i, c.id, "should come out in enqueue order")
		}
		assert.Zero(t, q.size(), "should be empty")
	})

	t.Run("pop on empty", func(t *testing.T) {
		q := newSendQueue()
		_, ok := q.pop()
		assert.False(t, ok, "should report empty")
	})

	t.Run("grows past initial capacity", func(t *testing.T) {
		q := newSendQueue()

		// Interleave to move head off zero before the ring wraps.
		for i := MessageID(0); i < 5; i++ {
			q.push(chunk{id: i})
		}
		for i := MessageID(0); i < 5; i++ {
			c, ok := q.pop()
			assert.True(t, ok, "should pop")
			assert.Equal(t, i, c.id, "should match")
		}

		n := MessageID(3 * minQueueCap)
		for i := MessageID(0); i < n; i++ {
			q.push(chunk{id: i, payload: []byte{byte(i)}})
		}
		assert.Equal(t, int(n), q.size(), "should hold all")

		for i := MessageID(0); i < n; i++ {
			c, ok := q.pop()
			assert.True(t, ok, "should pop")
			assert.Equal(t, i, c.id, "should preserve order across growth")
			assert.Equal(t, []byte{byte(i)}, c.payload, "should preserve payload")
		}
	})
}
