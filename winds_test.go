package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWindsSteadyOnly checks that with no gust/turbulence active, Update
// returns exactly the steady wind vector.
func TestWindsSteadyOnly(t *testing.T) {
	w := NewWinds(nil, 1, 30)
	w.SetSteadyWindNED(Vector3{X: 10, Y: 5, Z: 0})

	out := w.Update(0.1, 1000, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	assert.Equal(t, Vector3{X: 10, Y: 5, Z: 0}, out)
}

// TestWindsHeadingFromSteadyOnly checks that WindHeading derives from the
// steady wind vector alone, unaffected by gust or turbulence state.
func TestWindsHeadingFromSteadyOnly(t *testing.T) {
	w := NewWinds(nil, 1, 30)
	w.SetSteadyWindNED(Vector3{X: 0, Y: 10, Z: 0})

	assert.InDelta(t, math.Pi/2, w.WindHeading(), 1e-9)
}

// TestWindsOneMinusCosineGust checks that a triggered gust ramps from zero,
// reaches its declared magnitude during the steady phase, and decays back
// to zero after the end time.
func TestWindsOneMinusCosineGust(t *testing.T) {
	w := NewWinds(nil, 1, 30)
	w.TriggerOneMinusCosineGust(Vector3{X: 1, Y: 0, Z: 0}, FrameLocal, 20, 1.0, 2.0, 1.0, NewQuaternionFromEuler(0, 0, 0))

	start := w.Update(0.0, 1000, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	assert.InDelta(t, 0, start.X, 1e-6, "gust magnitude must start at zero")

	var mid Vector3
	for i := 0; i < 15; i++ {
		mid = w.Update(0.1, 1000, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	}
	assert.InDelta(t, 20, mid.X, 1.0, "gust should be near full magnitude partway through the steady phase")

	var end Vector3
	for i := 0; i < 30; i++ {
		end = w.Update(0.1, 1000, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	}
	assert.InDelta(t, 0, end.X, 1.0, "gust should have decayed back to zero after its declared duration")
}

// TestWindsMilspecTurbulenceZeroMean checks that
// over a long run at fixed conditions, the turbulence
// contribution's sample mean should be close to zero (it is a zero-mean
// colored-noise process), scenario S6 (500 ft AGL, severity 4).
func TestWindsMilspecTurbulenceZeroMean(t *testing.T) {
	w := NewWinds(nil, 7, 33.4)
	w.SetTurbulenceType(TurbMilspec)
	w.SetSeverity(4)

	const n = 20000
	const dt = 0.02
	var sumU, sumV, sumW float64
	for i := 0; i < n; i++ {
		w.Update(dt, 500, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
		sumU += w.turbulenceNED.X
		sumV += w.turbulenceNED.Y
		sumW += w.turbulenceNED.Z
	}
	meanU, meanV, meanW := sumU/n, sumV/n, sumW/n

	assert.InDelta(t, 0, meanU, 3.0, "u-axis turbulence mean should be near zero")
	assert.InDelta(t, 0, meanV, 3.0, "v-axis turbulence mean should be near zero")
	assert.InDelta(t, 0, meanW, 3.0, "w-axis turbulence mean should be near zero")
}

// TestWindsTurbulenceNoneContributesNothing checks that TurbNone leaves the
// turbulence component at zero.
func TestWindsTurbulenceNoneContributesNothing(t *testing.T) {
	w := NewWinds(nil, 1, 30)
	w.SetTurbulenceType(TurbNone)

	w.Update(0.1, 500, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	assert.Equal(t, Vector3{}, w.turbulenceNED)
}

// TestWindsBurstRingAccumulates checks that an active burst ring's injected
// field is added into the total, and a cleared ring list contributes
// nothing.
func TestWindsBurstRingAccumulates(t *testing.T) {
	w := NewWinds(nil, 1, 30)
	w.SetBurstFieldFunc(func(ring BurstRing, atNED Vector3) Vector3 {
		return Vector3{Z: -5}
	})
	w.AddBurstRing(BurstRing{Active: true})

	out := w.Update(0.1, 1000, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	assert.InDelta(t, -5, out.Z, 1e-9)

	w.ClearBurstRings()
	out = w.Update(0.1, 1000, 150, Vector3{}, NewQuaternionFromEuler(0, 0, 0))
	assert.InDelta(t, 0, out.Z, 1e-9)
}
