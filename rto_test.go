// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRTOEstimator(t *testing.T) {
	t.Run("initial values", func(t *testing.T) {
		e := newRTOEstimator(0, 0)
		assert.Equal(t, 2*time.Second, e.getRTO(), "should start at 2s")
		assert.Equal(t, rtoInitial, e.strongMean, "should be rtoInitial")
		assert.Equal(t, rtoInitial, e.weakMean, "should be rtoInitial")
		assert.Equal(t, varInitial, e.strongVar, "should be varInitial")
		assert.Equal(t, varInitial, e.weakVar, "should be varInitial")
	})

	t.Run("strong sample blending", func(t *testing.T) {
		e := newRTOEstimator(0, 0)
		e.recordSample(0, time.Second, 1)

		// Reproduce the update arithmetic step by step.
		expVar := bias(varInitial, rtoBeta, rtoInitial-1.0)
		expMean := bias(rtoInitial, rtoAlpha, 1.0)
		expRTO := bias(rtoInitial, strongWeight, expMean+4*expVar)

		assert.Equal(t, expVar, e.strongVar, "should match")
		assert.Equal(t, expMean, e.strongMean, "should match")
		assert.Equal(t, expRTO, e.rto, "should match")
		assert.InDelta(t, 2.7375, e.rto, 1e-9, "should be 2.7375s")

		// The weak pair is untouched by a strong sample.
		assert.Equal(t, rtoInitial, e.weakMean, "should be untouched")
		assert.Equal(t, varInitial, e.weakVar, "should be untouched")
	})

	t.Run("weak sample blending", func(t *testing.T) {
		for _, attempts := range []uint{1, 2} {
			e := newRTOEstimator(0, 0)
			e.recordSample(attempts, time.Second, 1)

			expVar := bias(varInitial, rtoBeta, rtoInitial-1.0)
			expMean := bias(rtoInitial, rtoAlpha, 1.0)
			expRTO := bias(rtoInitial, weakWeight, expMean+expVar)

			assert.Equal(t, expVar, e.weakVar, "should match")
			assert.Equal(t, expMean, e.weakMean, "should match")
			assert.Equal(t, expRTO, e.rto, "should match")

			assert.Equal(t, rtoInitial, e.strongMean, "should be untouched")
			assert.Equal(t, varInitial, e.strongVar, "should be untouched")
		}
	})

	t.Run("heavily retransmitted samples discarded", func(t *testing.T) {
		e := newRTOEstimator(0, 0)
		e.recordSample(3, time.Second, 1)
		e.recordSample(10, 50*time.Millisecond, 1)

		assert.Equal(t, 2*time.Second, e.getRTO(), "should be unchanged")
		assert.Equal(t, rtoInitial, e.strongMean, "should be unchanged")
		assert.Equal(t, rtoInitial, e.weakMean, "should be unchanged")
	})

	t.Run("batch weight damping", func(t *testing.T) {
		// A sample in a batch of two moves the estimate exactly as the
		// formulas with halved gains dictate.
		e := newRTOEstimator(0, 0)
		e.recordSample(0, time.Second, 2)

		expVar := bias(varInitial, rtoBeta/2, rtoInitial-1.0)
		expMean := bias(rtoInitial, rtoAlpha/2, 1.0)
		expRTO := bias(rtoInitial, strongWeight/2, expMean+4*expVar)

		assert.Equal(t, expVar, e.strongVar, "should match")
		assert.Equal(t, expMean, e.strongMean, "should match")
		assert.Equal(t, expRTO, e.rto, "should match")
	})

	t.Run("clamped at floor", func(t *testing.T) {
		e := newRTOEstimator(time.Second, 3*time.Second)
		for i := 0; i < 200; i++ {
			e.recordSample(0, time.Millisecond, 1)
		}
		assert.Equal(t, time.Second, e.getRTO(), "should be capped at the floor")
	})

	t.Run("clamped at ceiling", func(t *testing.T) {
		e := newRTOEstimator(time.Second, 3*time.Second)
		for i := 0; i < 200; i++ {
			e.recordSample(0, 300*time.Second, 1)
		}
		assert.Equal(t, 3*time.Second, e.getRTO(), "should be capped at the ceiling")
	})

	t.Run("non-positive samples rejected", func(t *testing.T) {
		e := newRTOEstimator(0, 0)
		e.recordSample(0, 0, 1)
		e.recordSample(0, -time.Second, 1)

		assert.Equal(t, 2*time.Second, e.getRTO(), "should be unchanged")
		assert.Equal(t, rtoInitial, e.strongMean, "should be unchanged")
	})

	t.Run("reset", func(t *testing.T) {
		e := newRTOEstimator(0, 0)
		for i := 0; i < 10; i++ {
			e.recordSample(0, 200*time.Millisecond, 1)
		}
		assert.NotEqual(t, 2*time.Second, e.getRTO(), "should have moved")

		e.reset()
		assert.Equal(t, 2*time.Second, e.getRTO(), "should be rtoInitial")
		assert.Equal(t, rtoInitial, e.strongMean, "should be rtoInitial")
		assert.Equal(t, varInitial, e.strongVar, "should be varInitial")
	})
}

func TestBias(t *testing.T) {
	assert.Equal(t, 1.0, bias(1.0, 0.0, 9.0), "zero weight keeps a")
	assert.Equal(t, 9.0, bias(1.0, 1.0, 9.0), "full weight takes b")
	assert.Equal(t, 5.0, bias(1.0, 0.5, 9.0), "half weight averages")
}
