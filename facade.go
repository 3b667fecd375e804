package main

import "fmt"

// Collaborator façade: an executive value owns each collaborator by
// composition and hands narrow, read-only interfaces to the IC solver and
// trim engine instead of concrete types, so neither ever walks a pointer
// back to its owner.

// Propagate is the read-only subset of the propagation/integration
// collaborator the core needs.
type Propagate interface {
	AltitudeMSLFt() float64
	AltitudeAGLFt() float64
	EulerAngles() Euler
	BodyAccelerations() Vector3 // udot, vdot, wdot
	AngularAccelerations() Vector3 // pdot, qdot, rdot
	SinCosEuler() (sinPhi, cosPhi, sinTheta, cosTheta, sinPsi, cosPsi float64)
	TerrainContact() bool
	TerrainNormal() Vector3
}

// Aerodynamics is the read-only subset of the aerodynamics collaborator.
type Aerodynamics interface {
	AlphaLimits() (min, max float64)
	Alpha() float64
	Beta() float64
}

// Propulsion is the read-only subset of the propulsion collaborator.
type Propulsion interface {
	EngineCount() int
	ThrottleLimits(engine int) (min, max float64)
	RunSteadyState() error
}

// GroundReactions is the read-only subset of the ground-reactions
// collaborator.
type GroundReactions interface {
	GearCount() int
	WeightOnWheels(gear int) bool
	GearLocationBody(gear int) Vector3
	GearLocationLocal(gear int) Vector3
	SetReporting(on bool)
}

// Inertial is the read-only subset of the inertial/gravity collaborator.
type Inertial interface {
	ReferenceRadiusFt() float64
	GravityAt(loc Location) float64
	AGL(loc Location) float64
}

// FlightControlSystem is the read/write subset of the FCS collaborator the
// trim engine drives.
type FlightControlSystem interface {
	SetThrottleCmd(engine int, cmd float64)
	SetElevatorCmd(cmd float64)
	ElevatorCmd() float64
	SetAileronCmd(cmd float64)
	AileronCmd() float64
	SetRudderCmd(cmd float64)
	RudderCmd() float64
	SetPitchTrimCmd(cmd float64)
	PitchTrimCmd() float64
	SetRollTrimCmd(cmd float64)
	RollTrimCmd() float64
	SetYawTrimCmd(cmd float64)
	YawTrimCmd() float64
}

// EventHooks are the event callbacks the engine fires: gust trigger, IC
// reset, trim begin/end. Each is optional; a nil hook is simply not
// called.
type EventHooks struct {
	OnGustTrigger func()
	OnICReset     func()
	OnTrimBegin   func(mode TrimMode)
	OnTrimEnd     func(result Result)
}

func (h EventHooks) fireGustTrigger() {
	if h.OnGustTrigger != nil {
		h.OnGustTrigger()
	}
}

func (h EventHooks) fireICReset() {
	if h.OnICReset != nil {
		h.OnICReset()
	}
}

func (h EventHooks) fireTrimBegin(mode TrimMode) {
	if h.OnTrimBegin != nil {
		h.OnTrimBegin(mode)
	}
}

func (h EventHooks) fireTrimEnd(result Result) {
	if h.OnTrimEnd != nil {
		h.OnTrimEnd(result)
	}
}

// Executive owns every collaborator by composition (never a pointer back
// from a collaborator to its owner) and hands IC/Trim the narrow
// interfaces above.
type Executive struct {
	Atmosphere *Atmosphere
	Winds      *Winds
	IC         *InitialCondition
	Trim       *TrimEngine
	Bridge     *PropertyBridge

	Propagate       Propagate
	Aerodynamics    Aerodynamics
	Propulsion      Propulsion
	GroundReactions GroundReactions
	Inertial        Inertial
	FCS             FlightControlSystem

	Hooks EventHooks
}

// NewExecutive wires an Executive from already-constructed components and
// collaborator implementations. Any nil collaborator is fatal and aborts
// construction.
func NewExecutive(
	atmosphere *Atmosphere,
	winds *Winds,
	ic *InitialCondition,
	propagate Propagate,
	aero Aerodynamics,
	propulsion Propulsion,
	ground GroundReactions,
	inertial Inertial,
	fcs FlightControlSystem,
) (*Executive, error) {
	if atmosphere == nil || winds == nil || ic == nil || propagate == nil ||
		aero == nil || propulsion == nil || ground == nil || inertial == nil || fcs == nil {
		return nil, errMissingCollaborator("executive")
	}
	exec := &Executive{
		Atmosphere:      atmosphere,
		Winds:           winds,
		IC:              ic,
		Propagate:       propagate,
		Aerodynamics:    aero,
		Propulsion:      propulsion,
		GroundReactions: ground,
		Inertial:        inertial,
		FCS:             fcs,
	}
	exec.Bridge = NewPropertyBridge()
	BindStandardProperties(exec)
	return exec, nil
}

// TriggerGust starts a one-minus-cosine gust event at the vehicle's
// current attitude and fires the gust hook.
func (e *Executive) TriggerGust(direction Vector3, frame WindFrame, magnitude, startup, steady, end float64) {
	att := e.Propagate.EulerAngles()
	e.Winds.TriggerOneMinusCosineGust(direction, frame, magnitude, startup, steady, end,
		NewQuaternionFromEuler(att.Phi, att.Theta, att.Psi))
	e.Hooks.fireGustTrigger()
}

// ResetIC restores the IC solver to canonical defaults and fires the
// reset hook.
func (e *Executive) ResetIC() {
	e.IC.initialize()
	e.Hooks.fireICReset()
}

func errMissingCollaborator(what string) error {
	return fmt.Errorf("%s: %w", what, ErrMissingCollaborator)
}
