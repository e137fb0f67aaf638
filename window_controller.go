// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

// windowState tags the controller's two states.
type windowState uint8

const (
	windowHalted windowState = iota
	windowRising
)

func (s windowState) String() string {
	switch s {
	case windowHalted:
		return "halted"
	case windowRising:
		return "rising"
	}

	return "unknown"
}

// windowController governs how transmission capacity changes after each
// reconciliation pass: multiplicative backoff whenever the relevant prefix
// still holds unacked slots, additive growth that accelerates every three
// consecutive clean passes otherwise. factor and consecutive are meaningful
// only while rising and are reset on every transition into that state.
type windowController struct {
	state       windowState
	factor      uint
	consecutive uint
}

func newWindowController() *windowController {
	return &windowController{state: windowHalted}
}

// onBackoff handles a pass that left unacked slots in the relevant prefix:
// growth halts and windowMax sheds half the unacked count, floored at 1.
func (c *windowController) onBackoff(windowMax uint, unacked int) uint {
	c.state = windowHalted

	shed := uint(unacked) / 2
	if windowMax > shed {
		return windowMax - shed
	}

	return 1
}

// onClean handles a pass whose entire relevant prefix had been acknowledged
// (or was empty). The first clean pass after a halt only arms growth; each
// following clean pass grows windowMax by the current factor, and the factor
// itself steps up every third consecutive clean pass at that factor.
func (c *windowController) onClean(windowMax uint) uint {
	switch c.state {
	case windowHalted:
		c.state = windowRising
		c.factor = 0
		c.consecutive = 0

		return windowMax
	case windowRising:
		if c.factor == 0 {
			c.factor = 1
		} else {
			c.consecutive++
		}
		if c.consecutive == 3 {
			c.factor++
			c.consecutive = 0
		}

		return windowMax + c.factor
	}

	return windowMax
}
