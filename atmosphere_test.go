package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAtmosphereSeaLevel checks the 1976 USSA sea-level reference values.
func TestAtmosphereSeaLevel(t *testing.T) {
	atm := NewAtmosphere(PlanetEarth, nil)

	t.Run("Temperature", func(t *testing.T) {
		assert.InDelta(t, 518.67, atm.Temperature(0), 0.01)
	})
	t.Run("Pressure", func(t *testing.T) {
		assert.InDelta(t, 2116.228, atm.Pressure(0), 0.5)
	})
	t.Run("Density", func(t *testing.T) {
		assert.InDelta(t, 0.0023769, atm.Density(0), 1e-6)
	})
	t.Run("SoundSpeed", func(t *testing.T) {
		assert.InDelta(t, 1116.45, atm.SoundSpeed(0), 0.5)
	})
}

// TestAtmosphereTropopause checks the 36089.24 ft tropopause boundary,
// scenario S2.
func TestAtmosphereTropopause(t *testing.T) {
	atm := NewAtmosphere(PlanetEarth, nil)
	const tropopauseFt = 36089.24

	// Standard temperature at the tropopause is ~389.97 R. 36089.24 ft is
	// the geopotential layer boundary; taken as a geometric altitude it lies
	// about 62 ft below it, so the temperature there is ~0.2 R warmer.
	assert.InDelta(t, 389.97, atm.Temperature(tropopauseFt), 0.5)

	// The isothermal layer above holds temperature constant.
	above := atm.Temperature(tropopauseFt + 20000)
	assert.InDelta(t, atm.Temperature(tropopauseFt+5000), above, 0.01)

	// Pressure strictly decreases with altitude through the layer.
	assert.Less(t, atm.Pressure(tropopauseFt+5000), atm.Pressure(tropopauseFt))
}

// TestAtmosphereBiasLinearity checks that a constant temperature
// bias shifts T(h) by exactly
// the bias at every altitude, independent of h.
func TestAtmosphereBiasLinearity(t *testing.T) {
	baseline := NewAtmosphere(PlanetEarth, nil)
	biased := NewAtmosphere(PlanetEarth, nil)
	biased.SetTemperatureBias(10.0)

	for _, h := range []float64{0, 5000, 20000, 40000} {
		assert.InDelta(t, baseline.Temperature(h)+10.0, biased.Temperature(h), 0.05,
			"bias must shift temperature uniformly at h=%v", h)
	}
}

// TestAtmosphereSeaLevelPressureResets verifies SetSeaLevelPressure rebuilds
// the current breakpoint table and ResetSeaLevelPressure restores the
// standard one.
func TestAtmosphereSeaLevelPressureResets(t *testing.T) {
	atm := NewAtmosphere(PlanetEarth, nil)
	standardSL := atm.Pressure(0)

	require.NoError(t, atm.SetSeaLevelPressure(30.10, "INHG"))
	assert.NotEqual(t, standardSL, atm.Pressure(0))

	atm.ResetSeaLevelPressure()
	assert.InDelta(t, standardSL, atm.Pressure(0), 1e-6)
}

// TestAtmosphereDensityAltitudeRoundTrip checks that DensityAltitude inverts
// Density for the standard atmosphere (no bias).
func TestAtmosphereDensityAltitudeRoundTrip(t *testing.T) {
	atm := NewAtmosphere(PlanetEarth, nil)
	const hFt = 8000.0

	da, err := atm.DensityAltitude(hFt)
	require.NoError(t, err)
	assert.InDelta(t, hFt, da, 5.0)
}

// TestAtmosphereMarsVariant checks the Mars two-branch temperature model at
// and around its 22,960 ft breakpoint.
func TestAtmosphereMarsVariant(t *testing.T) {
	atm := NewAtmosphere(PlanetMars, nil)

	below := atm.Temperature(10000)
	above := atm.Temperature(30000)
	assert.Less(t, above, below, "Mars temperature must fall with altitude above the breakpoint")
}
