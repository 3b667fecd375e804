package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadAircraftConfig parses the demo airframe document and checks the
// derived numeric fields each collaborator constructor pulls out of it.
func TestLoadAircraftConfig(t *testing.T) {
	cfg, err := LoadAircraftConfig(strings.NewReader(demoAircraftXML))
	require.NoError(t, err)

	assert.Equal(t, "demo-light-trainer", cfg.Name)

	t.Run("metrics in native units", func(t *testing.T) {
		area, err := cfg.Metrics.WingArea.In(UnitFoot2)
		require.NoError(t, err)
		assert.InDelta(t, 174.0, area, 1e-9)

		span, err := cfg.Metrics.WingSpan.In(UnitFoot)
		require.NoError(t, err)
		assert.InDelta(t, 33.4, span, 1e-9)
	})

	t.Run("gear locations convert inches to feet", func(t *testing.T) {
		require.Len(t, cfg.GroundReactions.Contacts, 3)
		nose, err := cfg.GroundReactions.Contacts[0].Location.BodyFt()
		require.NoError(t, err)
		assert.InDelta(t, 6.0, nose.X, 1e-9)
		assert.InDelta(t, 5.0, nose.Z, 1e-9)
	})

	t.Run("spring and damping units recognized", func(t *testing.T) {
		c := cfg.GroundReactions.Contacts[0]
		spring, err := c.Spring.In(UnitPoundPerFoot)
		require.NoError(t, err)
		assert.InDelta(t, 1800.0, spring, 1e-9)

		damping, err := c.Damping.In(UnitPoundPerFootSec)
		require.NoError(t, err)
		assert.InDelta(t, 600.0, damping, 1e-9)
	})

	t.Run("engine and channel sections present", func(t *testing.T) {
		require.Len(t, cfg.Propulsion.Engines, 1)
		thrust, err := cfg.Propulsion.Engines[0].MaxThrust.In(UnitPound)
		require.NoError(t, err)
		assert.InDelta(t, 480.0, thrust, 1e-9)

		require.Len(t, cfg.FlightControl.Channels, 3)
		assert.Equal(t, "elevator", cfg.FlightControl.Channels[0].Name)
	})
}

// TestLoadAircraftConfigRejectsIncomplete checks that a document missing
// the required sections fails with a schema error.
func TestLoadAircraftConfigRejectsIncomplete(t *testing.T) {
	_, err := LoadAircraftConfig(strings.NewReader(`<fdm_config name="x"><metrics/></fdm_config>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadSchema))
}

// TestLoadAircraftConfigRejectsMalformed checks the malformed-XML path.
func TestLoadAircraftConfigRejectsMalformed(t *testing.T) {
	_, err := LoadAircraftConfig(strings.NewReader(`<fdm_config`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadSchema))
}

// TestCanonicalUnit maps the document spellings onto the conversion-map
// names.
func TestCanonicalUnit(t *testing.T) {
	assert.Equal(t, UnitSlugFoot2, canonicalUnit("SLUG*FT2"))
	assert.Equal(t, UnitPoundPerFoot, canonicalUnit("LBS/FT"))
	assert.Equal(t, UnitPoundPerFootSec, canonicalUnit("LBS/FT/SEC"))
	assert.Equal(t, UnitFoot, canonicalUnit(" ft "))
}

// TestConfigValueUnknownUnit checks that an unrecognized unit attribute
// surfaces the conversion error instead of being silently taken at face
// value.
func TestConfigValueUnknownUnit(t *testing.T) {
	v := &ConfigValue{Unit: "FURLONG", Value: 3}
	_, err := v.In(UnitFoot)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}
