// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowController(t *testing.T) {
	t.Run("initial state", func(t *testing.T) {
		c := newWindowController()
		assert.Equal(t, windowHalted, c.state, "should start halted")
	})

	t.Run("first clean pass arms growth only", func(t *testing.T) {
		c := newWindowController()
		assert.Equal(t, uint(4), c.onClean(4), "should not grow yet")
		assert.Equal(t, windowRising, c.state, "should be rising")
		assert.Zero(t, c.factor, "should be armed at zero")
		assert.Zero(t, c.consecutive, "should be armed at zero")
	})

	t.Run("growth accelerates every third clean pass", func(t *testing.T) {
		c := newWindowController()
		windowMax := c.onClean(1) // halted -> rising, no growth

		exp := []uint{1, 1, 1, 2, 2, 2, 3, 3, 3}
		for i, inc := range exp {
			before := windowMax
			windowMax = c.onClean(windowMax)
			assert.Equal(t, before+inc, windowMax, "pass %d should grow by %d", i, inc)
		}
	})

	t.Run("backoff sheds half the unacked count", func(t *testing.T) {
		c := newWindowController()
		assert.Equal(t, uint(7), c.onBackoff(10, 6), "should shed unacked/2")
		assert.Equal(t, windowHalted, c.state, "should halt")

		assert.Equal(t, uint(10), c.onBackoff(10, 1), "integer division floors to zero shed")
	})

	t.Run("backoff floors at one", func(t *testing.T) {
		c := newWindowController()
		assert.Equal(t, uint(1), c.onBackoff(3, 6), "should floor at 1")
		assert.Equal(t, uint(1), c.onBackoff(3, 4), "should floor at 1 when shed equals max")
		assert.Equal(t, uint(1), c.onBackoff(1, 1), "should never go below 1")
	})

	t.Run("growth restarts slowly after a halt", func(t *testing.T) {
		c := newWindowController()
		windowMax := c.onClean(uint(1))
		for i := 0; i < 6; i++ {
			windowMax = c.onClean(windowMax)
		}
		// factor reached 2; a backoff resets the ramp.
		windowMax = c.onBackoff(windowMax, 4)
		assert.Equal(t, windowHalted, c.state, "should halt")

		windowMax = c.onClean(windowMax)
		assert.Equal(t, windowRising, c.state, "should re-arm")
		before := windowMax
		windowMax = c.onClean(windowMax)
		assert.Equal(t, before+1, windowMax, "should restart at factor 1")
	})
}

func TestWindowStateString(t *testing.T) {
	assert.Equal(t, "halted", windowHalted.String())
	assert.Equal(t, "rising", windowRising.String())
	assert.Equal(t, "unknown", windowState(9).String())
}
