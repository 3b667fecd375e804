package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocationGeodeticRoundTrip checks that SetGeodetic followed by
// GeodeticLatitude/GeodeticAltitude recovers the original values within
// Bowring-iteration tolerance.
func TestLocationGeodeticRoundTrip(t *testing.T) {
	loc := &Location{}
	const latDeg, altFt = 37.5, 10000.0
	latRad := latDeg * math.Pi / 180

	require.NoError(t, loc.SetGeodetic(latRad, 0, altFt))

	assert.InDelta(t, latRad, loc.GeodeticLatitude(), 1e-8)
	assert.InDelta(t, altFt, loc.GeodeticAltitude(), 1e-3)
}

// TestLocationGeocentricVsGeodeticLatitudeDiffer checks the oblate-earth
// behavior: away from the equator and poles, geocentric and geodetic
// latitude are not equal.
func TestLocationGeocentricVsGeodeticLatitudeDiffer(t *testing.T) {
	loc := &Location{}
	require.NoError(t, loc.SetGeodetic(45*math.Pi/180, 0, 0))

	assert.NotEqual(t, loc.GeodeticLatitude(), loc.GeocentricLatitude())
}

// TestLocationEquatorAndPoleAgree checks that geocentric and geodetic
// latitude coincide exactly at the equator and the pole, where the
// ellipsoid's oblateness has no effect.
func TestLocationEquatorAndPoleAgree(t *testing.T) {
	t.Run("equator", func(t *testing.T) {
		loc := &Location{}
		require.NoError(t, loc.SetGeodetic(0, 0, 1000))
		assert.InDelta(t, 0, loc.GeodeticLatitude(), 1e-9)
	})
	t.Run("pole", func(t *testing.T) {
		loc := &Location{}
		require.NoError(t, loc.SetGeodetic(math.Pi/2, 0, 1000))
		assert.InDelta(t, math.Pi/2, loc.GeodeticLatitude(), 1e-6)
	})
}

// TestLocationRejectsSubPolarRadius checks the radius >= polar-radius
// invariant.
func TestLocationRejectsSubPolarRadius(t *testing.T) {
	loc := &Location{}
	err := loc.SetGeocentric(0, 0, earthPolarRadiusFt-1000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

// TestLocationRejectsOutOfRangeLatitude checks the latitude range invariant
// for both setters.
func TestLocationRejectsOutOfRangeLatitude(t *testing.T) {
	loc := &Location{}

	err := loc.SetGeocentric(math.Pi, 0, earthEquatorialRadiusFt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	err = loc.SetGeodetic(-math.Pi, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

// TestLocationMarsUsesMarsEllipsoid checks that IsMars selects the Mars
// reference ellipsoid rather than Earth's.
func TestLocationMarsUsesMarsEllipsoid(t *testing.T) {
	earth := &Location{}
	mars := &Location{IsMars: true}

	require.NoError(t, earth.SetGeodetic(45*math.Pi/180, 0, 0))
	require.NoError(t, mars.SetGeodetic(45*math.Pi/180, 0, 0))

	assert.NotEqual(t, earth.GeocentricRadius(), mars.GeocentricRadius())
}
