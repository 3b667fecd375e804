package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bridgeFakeCollaborators is a trivial stub satisfying every façade
// interface, just enough to construct an Executive for bridge wiring tests.
type bridgeFakeCollaborators struct{}

func (bridgeFakeCollaborators) AltitudeMSLFt() float64 { return 0 }
func (bridgeFakeCollaborators) AltitudeAGLFt() float64 { return 0 }
func (bridgeFakeCollaborators) EulerAngles() Euler      { return Euler{} }
func (bridgeFakeCollaborators) BodyAccelerations() Vector3    { return Vector3{} }
func (bridgeFakeCollaborators) AngularAccelerations() Vector3 { return Vector3{} }
func (bridgeFakeCollaborators) SinCosEuler() (sinPhi, cosPhi, sinTheta, cosTheta, sinPsi, cosPsi float64) {
	return 0, 1, 0, 1, 0, 1
}
func (bridgeFakeCollaborators) TerrainContact() bool   { return false }
func (bridgeFakeCollaborators) TerrainNormal() Vector3 { return Vector3{Z: -1} }

func (bridgeFakeCollaborators) AlphaLimits() (min, max float64) { return radians(-20), radians(20) }
func (bridgeFakeCollaborators) Alpha() float64                  { return 0 }
func (bridgeFakeCollaborators) Beta() float64                   { return 0 }

func (bridgeFakeCollaborators) EngineCount() int                             { return 1 }
func (bridgeFakeCollaborators) ThrottleLimits(engine int) (min, max float64) { return 0, 1 }
func (bridgeFakeCollaborators) RunSteadyState() error                        { return nil }

func (bridgeFakeCollaborators) GearCount() int                     { return 0 }
func (bridgeFakeCollaborators) WeightOnWheels(gear int) bool       { return false }
func (bridgeFakeCollaborators) GearLocationBody(gear int) Vector3  { return Vector3{} }
func (bridgeFakeCollaborators) GearLocationLocal(gear int) Vector3 { return Vector3{} }
func (bridgeFakeCollaborators) SetReporting(on bool)               {}

func (bridgeFakeCollaborators) ReferenceRadiusFt() float64     { return earthPolarRadiusFt }
func (bridgeFakeCollaborators) GravityAt(loc Location) float64 { return 32.174 }
func (bridgeFakeCollaborators) AGL(loc Location) float64       { return 0 }

func (bridgeFakeCollaborators) SetThrottleCmd(engine int, cmd float64) {}
func (bridgeFakeCollaborators) SetElevatorCmd(cmd float64)             {}
func (bridgeFakeCollaborators) ElevatorCmd() float64                   { return 0 }
func (bridgeFakeCollaborators) SetAileronCmd(cmd float64)              {}
func (bridgeFakeCollaborators) AileronCmd() float64                    { return 0 }
func (bridgeFakeCollaborators) SetRudderCmd(cmd float64)               {}
func (bridgeFakeCollaborators) RudderCmd() float64                     { return 0 }
func (bridgeFakeCollaborators) SetPitchTrimCmd(cmd float64)            {}
func (bridgeFakeCollaborators) PitchTrimCmd() float64                  { return 0 }
func (bridgeFakeCollaborators) SetRollTrimCmd(cmd float64)             {}
func (bridgeFakeCollaborators) RollTrimCmd() float64                   { return 0 }
func (bridgeFakeCollaborators) SetYawTrimCmd(cmd float64)              {}
func (bridgeFakeCollaborators) YawTrimCmd() float64                    { return 0 }

func newBridgeTestExecutive(t *testing.T) *Executive {
	t.Helper()
	atm := NewAtmosphere(PlanetEarth, nil)
	ic, err := NewInitialCondition(atm, nil)
	require.NoError(t, err)

	fake := bridgeFakeCollaborators{}
	exec, err := NewExecutive(atm, NewWinds(nil, 1, 30), ic, fake, fake, fake, fake, fake, fake)
	require.NoError(t, err)
	return exec
}

// TestBridgeStandardPropertiesBound checks that NewExecutive's automatic
// BindStandardProperties wiring leaves the standard vocabulary readable.
func TestBridgeStandardPropertiesBound(t *testing.T) {
	exec := newBridgeTestExecutive(t)

	for _, path := range []string{
		"atmosphere/T-R", "atmosphere/P-psf", "atmosphere/rho-slugs_ft3",
		"ic/vt-fps", "ic/mach", "ic/theta-rad", "fcs/elevator-cmd-norm",
	} {
		_, err := exec.Bridge.Get(path)
		assert.NoError(t, err, "expected %q to be bound", path)
	}
}

// TestBridgeAliasResolvesToTarget checks that the alternate-spelling
// aliases read through to the same value as their canonical path.
func TestBridgeAliasResolvesToTarget(t *testing.T) {
	exec := newBridgeTestExecutive(t)

	canonical, err := exec.Bridge.Get("atmosphere/T-R")
	require.NoError(t, err)
	aliased, err := exec.Bridge.Get("atmosphere/temperature-R")
	require.NoError(t, err)

	assert.Equal(t, canonical, aliased)
}

// TestBridgeSetWritesThroughToIC checks that a writable node's Set reaches
// the underlying InitialCondition.
func TestBridgeSetWritesThroughToIC(t *testing.T) {
	exec := newBridgeTestExecutive(t)

	require.NoError(t, exec.Bridge.Set("ic/vt-fps", 275))
	assert.InDelta(t, 275, exec.IC.Vt(), 1e-6)

	v, err := exec.Bridge.Get("ic/vt-fps")
	require.NoError(t, err)
	assert.InDelta(t, 275, v, 1e-6)
}

// TestBridgeReadOnlyNodeRejectsSet checks that a bound node with a nil
// setter (e.g. a derived atmosphere property) fails to write.
func TestBridgeReadOnlyNodeRejectsSet(t *testing.T) {
	exec := newBridgeTestExecutive(t)

	err := exec.Bridge.Set("atmosphere/T-R", 500)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadSchema))
}

// TestBridgeUnknownPathFails checks the missing-node error path for both
// Get and Set.
func TestBridgeUnknownPathFails(t *testing.T) {
	exec := newBridgeTestExecutive(t)

	_, err := exec.Bridge.Get("nonexistent/path")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadSchema))

	err = exec.Bridge.Set("nonexistent/path", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadSchema))
}

// TestBridgeUnbindRemovesNode checks Unbind's teardown semantics.
func TestBridgeUnbindRemovesNode(t *testing.T) {
	b := NewPropertyBridge()
	b.Bind("scratch/value", func() float64 { return 42 }, nil)

	v, err := b.Get("scratch/value")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	b.Unbind("scratch/value")
	_, err = b.Get("scratch/value")
	assert.Error(t, err)
}

// TestBridgePathsListsEveryBoundNode checks Paths against a fresh bridge
// with a known set of bindings.
func TestBridgePathsListsEveryBoundNode(t *testing.T) {
	b := NewPropertyBridge()
	b.Bind("a", func() float64 { return 1 }, nil)
	b.Bind("b", func() float64 { return 2 }, nil)

	paths := b.Paths()
	assert.ElementsMatch(t, []string{"a", "b"}, paths)
}

// TestBridgeSetAliasOverridesExistingAlias checks that re-registering an
// alias repoints it rather than erroring.
func TestBridgeSetAliasOverridesExistingAlias(t *testing.T) {
	b := NewPropertyBridge()
	b.Bind("x", func() float64 { return 1 }, nil)
	b.Bind("y", func() float64 { return 2 }, nil)
	b.SetAlias("alias", "x")

	v, err := b.Get("alias")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	b.SetAlias("alias", "y")
	v, err = b.Get("alias")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}
