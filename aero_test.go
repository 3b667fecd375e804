package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAeroModel(t *testing.T) *AeroModel {
	t.Helper()
	m, err := NewAeroModel(&ConfigMetrics{
		WingArea: &ConfigValue{Unit: "FT2", Value: 174},
		WingSpan: &ConfigValue{Unit: "FT", Value: 33.4},
		Chord:    &ConfigValue{Unit: "FT", Value: 5.5},
	})
	require.NoError(t, err)
	return m
}

// TestAeroLiftIncreasesWithAlpha checks the lift slope: more alpha, more
// up-force (more negative body z) at fixed dynamic pressure.
func TestAeroLiftIncreasesWithAlpha(t *testing.T) {
	m := testAeroModel(t)
	qbar, vt := 50.0, 200.0

	fLow, _ := m.ForcesMoments(qbar, 0.00, 0, vt, Vector3{}, 0, 0, 0)
	fHigh, _ := m.ForcesMoments(qbar, 0.10, 0, vt, Vector3{}, 0, 0, 0)
	assert.Less(t, fHigh.Z, fLow.Z)
}

// TestAeroElevatorPitchAuthority checks that a positive elevator
// deflection pitches nose-down through the negative Cmde derivative.
func TestAeroElevatorPitchAuthority(t *testing.T) {
	m := testAeroModel(t)
	_, mNeutral := m.ForcesMoments(50, 0.02, 0, 200, Vector3{}, 0, 0, 0)
	_, mDeflected := m.ForcesMoments(50, 0.02, 0, 200, Vector3{}, 0.5, 0, 0)
	assert.Less(t, mDeflected.Y, mNeutral.Y)
}

// TestAeroPitchDamping checks that a positive pitch rate produces a
// restoring (negative) pitching-moment increment.
func TestAeroPitchDamping(t *testing.T) {
	m := testAeroModel(t)
	_, still := m.ForcesMoments(50, 0.02, 0, 200, Vector3{}, 0, 0, 0)
	_, pitching := m.ForcesMoments(50, 0.02, 0, 200, Vector3{Y: 0.5}, 0, 0, 0)
	assert.Less(t, pitching.Y, still.Y)
}

// TestAeroSideslipWeathervane checks the directional stability sign: a
// positive beta yields a positive (restoring) yaw moment and a negative
// side force.
func TestAeroSideslipWeathervane(t *testing.T) {
	m := testAeroModel(t)
	f, mom := m.ForcesMoments(50, 0.02, 0.05, 200, Vector3{}, 0, 0, 0)
	assert.Negative(t, f.Y)
	assert.Positive(t, mom.Z)
}

// TestAeroAlphaLimits checks the trim-bound handle and that the buildup
// clamps alpha beyond the stall range instead of extrapolating the lift
// slope.
func TestAeroAlphaLimits(t *testing.T) {
	m := testAeroModel(t)
	min, max := m.AlphaLimits()
	assert.Negative(t, min)
	assert.Positive(t, max)

	fAtMax, _ := m.ForcesMoments(50, max, 0, 200, Vector3{}, 0, 0, 0)
	fBeyond, _ := m.ForcesMoments(50, max+0.2, 0, 200, Vector3{}, 0, 0, 0)
	// Beyond the clamp the lift coefficient is frozen; only the wind-to-
	// body projection changes.
	assert.InDelta(t, fAtMax.Magnitude(), fBeyond.Magnitude(), 0.05*fAtMax.Magnitude())
}

// TestAeroAnglesHandle checks the read-only alpha/beta handle tracks the
// last evaluated state.
func TestAeroAnglesHandle(t *testing.T) {
	m := testAeroModel(t)
	m.ForcesMoments(50, 0.07, -0.02, 200, Vector3{}, 0, 0, 0)
	assert.Equal(t, 0.07, m.Alpha())
	assert.Equal(t, -0.02, m.Beta())
}
