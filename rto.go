// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"math"
	"time"
)

const (
	// rtoInitial is the estimate assumed before any sample arrives, and the
	// value every mean restarts from on reset. Seconds.
	rtoInitial = 2.0
	varInitial = 0.2

	// Conventional RTT smoothing gains (RFC 6298).
	rtoAlpha = 0.125
	rtoBeta  = 0.25

	// How strongly a strong (first-try) vs. weak (1-2 retransmissions)
	// sample pulls the blended timeout.
	strongWeight = 0.5
	weakWeight   = 0.25

	defaultRTOMin = 100 * time.Millisecond
	defaultRTOMax = 60 * time.Second
)

// rtoEstimator derives the retransmission timeout from two independent
// smoothed mean/variance pairs: "strong" samples were acknowledged on the
// first transmission, "weak" samples after one or two retransmissions.
// Samples acknowledged after more than two retransmissions carry ambiguous
// RTT attribution (Karn's rule) and are discarded.
// Not thread-safe; the Engine serializes access.
type rtoEstimator struct {
	rto float64 // seconds

	strongMean float64
	strongVar  float64

	weakMean float64
	weakVar  float64

	rtoMin float64 // seconds
	rtoMax float64 // seconds
}

func newRTOEstimator(rtoMin, rtoMax time.Duration) *rtoEstimator {
	if rtoMin <= 0 {
		rtoMin = defaultRTOMin
	}
	if rtoMax <= 0 {
		rtoMax = defaultRTOMax
	}

	e := &rtoEstimator{
		rtoMin: rtoMin.Seconds(),
		rtoMax: rtoMax.Seconds(),
	}
	e.reset()

	return e
}

func (e *rtoEstimator) reset() {
	e.rto = rtoInitial
	e.strongMean = rtoInitial
	e.strongVar = varInitial
	e.weakMean = rtoInitial
	e.weakVar = varInitial
}

// recordSample folds one acknowledged RTT measurement into the estimate.
// attempts is the number of retransmissions that preceded the ack.
// batchWeight is the total number of samples recorded during the current
// reconciliation pass; every gain is divided by it so that a multi-ack pass
// has the aggregate influence of a single consolidated update rather than a
// cumulative over-correction. batchWeight must be >= 1.
func (e *rtoEstimator) recordSample(attempts uint, rtt time.Duration, batchWeight int) {
	if rtt <= 0 {
		return
	}
	secs := rtt.Seconds()
	weight := float64(batchWeight)

	switch {
	case attempts == 0:
		// Variance first: it measures the sample against the mean as it
		// stood before this sample moved it.
		e.strongVar = bias(e.strongVar, rtoBeta/weight, e.strongMean-secs)
		e.strongMean = bias(e.strongMean, rtoAlpha/weight, secs)
		e.rto = bias(e.rto, strongWeight/weight, e.strongMean+4*e.strongVar)
	case attempts <= 2:
		e.weakVar = bias(e.weakVar, rtoBeta/weight, e.weakMean-secs)
		e.weakMean = bias(e.weakMean, rtoAlpha/weight, secs)
		e.rto = bias(e.rto, weakWeight/weight, e.weakMean+e.weakVar)
	default:
		// Karn's rule.
		return
	}

	e.clamp()
}

// clamp keeps the blended estimate positive and finite. A pathological
// sample can drag the variance negative enough to sink the blend below
// zero; the floor keeps the retransmission timer usable.
func (e *rtoEstimator) clamp() {
	if math.IsNaN(e.rto) || e.rto < e.rtoMin {
		e.rto = e.rtoMin

		return
	}
	if e.rto > e.rtoMax {
		e.rto = e.rtoMax
	}
}

func (e *rtoEstimator) getRTO() time.Duration {
	return time.Duration(e.rto * float64(time.Second))
}

// bias blends a toward b, giving b the given fraction of the influence.
func bias(a, weight, b float64) float64 {
	return (1-weight)*a + weight*b
}
