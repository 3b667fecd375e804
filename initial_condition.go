package main

import (
	"fmt"
	"math"
)

// SpeedSet records which of the redundant airspeed parameterizations was
// most recently set.
type SpeedSet int

const (
	SpeedVt SpeedSet = iota
	SpeedVc
	SpeedVe
	SpeedMach
	SpeedUVW
	SpeedNED
	SpeedVg
)

// AltitudeSet records whether altitude was last set above sea level or
// above ground level.
type AltitudeSet int

const (
	AltitudeASL AltitudeSet = iota
	AltitudeAGL
)

const (
	seaLevelSoundSpeedFps = 1116.45
	seaLevelPressurePsf   = 2116.228
	seaLevelDensitySlugs  = 0.0023769
)

// InitialCondition reconstructs a kinematically consistent body-frame
// state from any permitted parameterization of airspeed, attitude,
// flight path, and wind, all redundancy invariants enforced at set time
// rather than read time.
type InitialCondition struct {
	atmosphere *Atmosphere
	logger     Logger

	location    Location
	elevationFt float64 // terrain elevation under the vehicle, for AGL<->ASL

	phiRad, thetaRad, psiRad float64

	vtFps   float64
	alphaRad float64
	betaRad  float64
	gammaRad float64
	pRad, qRad, rRad float64 // body angular rate, fps/rad-sec; not re-derived by speed invariants

	windNED Vector3

	speedSet    SpeedSet
	altitudeSet AltitudeSet
}

// NewInitialCondition constructs an IC solver bound to an atmosphere model
// and resets it to canonical defaults.
func NewInitialCondition(atmosphere *Atmosphere, logger Logger) (*InitialCondition, error) {
	if atmosphere == nil {
		return nil, fmt.Errorf("initial condition requires an atmosphere: %w", ErrMissingCollaborator)
	}
	if logger == nil {
		logger = NoopLogger{}
	}
	ic := &InitialCondition{atmosphere: atmosphere, logger: logger}
	ic.initialize()
	return ic, nil
}

// initialize resets every parameter to canonical defaults: sea level,
// wings level, zero airspeed, zero wind.
func (ic *InitialCondition) initialize() {
	ic.location = Location{}
	ic.location.SetGeodetic(0, 0, 0)
	ic.elevationFt = 0
	ic.phiRad, ic.thetaRad, ic.psiRad = 0, 0, 0
	ic.vtFps, ic.alphaRad, ic.betaRad, ic.gammaRad = 0, 0, 0, 0
	ic.pRad, ic.qRad, ic.rRad = 0, 0, 0
	ic.windNED = Vector3{}
	ic.speedSet = SpeedVt
	ic.altitudeSet = AltitudeASL
}

// altitudeASLFt returns the current geometric altitude above the
// reference ellipsoid (feet).
func (ic *InitialCondition) altitudeASLFt() float64 {
	return ic.location.GeodeticAltitude()
}

// altitudeAGLFt returns altitude above the local terrain elevation.
func (ic *InitialCondition) altitudeAGLFt() float64 {
	return ic.altitudeASLFt() - ic.elevationFt
}

func (ic *InitialCondition) orientation() Quaternion {
	return NewQuaternionFromEuler(ic.phiRad, ic.thetaRad, ic.psiRad)
}

// --- speed set invariant ---------------------------------------------------

// machAt returns the Mach number for the current vt at the current
// altitude.
func (ic *InitialCondition) machAt() float64 {
	a := ic.atmosphere.SoundSpeed(ic.altitudeASLFt())
	if a == 0 {
		return 0
	}
	return ic.vtFps / a
}

// ptOverP is the total-to-static pressure ratio as a function of Mach,
// stitched at M=1: isentropic subsonic branch, Rayleigh
// pitot-tube supersonic branch.
func ptOverP(mach float64) float64 {
	if mach < 1 {
		return math.Pow(1+0.2*mach*mach, 3.5)
	}
	b := 5.76 * mach * mach / (5.6*mach*mach - 0.8)
	d := (2.8*mach*mach - 0.4) * 0.4167
	return math.Pow(b, 3.5) * d
}

// vcToMach solves for the Mach number at altitude hFt whose total/static
// pressure ratio matches the impact pressure implied by calibrated
// airspeed vc (sea-level Rayleigh pitot relation).
func (ic *InitialCondition) vcToMach(vcFps, hFt float64) (float64, error) {
	machAtSeaLevel := vcFps / seaLevelSoundSpeedFps
	qcOverP0 := ptOverP(machAtSeaLevel) - 1
	qc := qcOverP0 * seaLevelPressurePsf

	p := ic.atmosphere.Pressure(hFt)
	if p <= 0 {
		return 0, fmt.Errorf("vc to mach: non-positive static pressure: %w", ErrNoSolution)
	}
	targetRatio := 1 + qc/p

	residual := func(m float64) float64 {
		return ptOverP(m) - targetRatio
	}
	cfg := DefaultICSolveConfig(0, 50)
	return Solve(residual, math.Max(machAtSeaLevel, 0.01), cfg)
}

// machToVc is the forward relation's inverse, used to display vc after
// setting vt/mach/ve directly.
func (ic *InitialCondition) machToVc(mach, hFt float64) float64 {
	ratio := ptOverP(mach)
	qc := (ratio - 1) * ic.atmosphere.Pressure(hFt)
	qcOverP0 := qc / seaLevelPressurePsf
	ratio0 := qcOverP0 + 1
	if ratio0 < 1 {
		ratio0 = 1
	}
	if ratio0 <= math.Pow(1+0.2, 3.5) {
		// subsonic branch is directly invertible
		return seaLevelSoundSpeedFps * math.Sqrt(5*(math.Pow(ratio0, 1.0/3.5)-1))
	}
	residual := func(m float64) float64 { return ptOverP(m) - ratio0 }
	root, err := Solve(residual, 1.2, DefaultICSolveConfig(0, 50))
	if err != nil {
		return 0
	}
	return root * seaLevelSoundSpeedFps
}

// SetVt sets true airspeed (fps) and marks SpeedVt as the last-speed tag.
func (ic *InitialCondition) SetVt(fps float64) {
	ic.vtFps = fps
	ic.speedSet = SpeedVt
	ic.recomputeAlphaBetaFromUVW()
}

// Vt returns true airspeed (fps).
func (ic *InitialCondition) Vt() float64 { return ic.vtFps }

// SetMach sets true airspeed via Mach number at the current altitude.
func (ic *InitialCondition) SetMach(mach float64) {
	a := ic.atmosphere.SoundSpeed(ic.altitudeASLFt())
	ic.vtFps = mach * a
	ic.speedSet = SpeedMach
	ic.recomputeAlphaBetaFromUVW()
}

// Mach returns the current Mach number.
func (ic *InitialCondition) Mach() float64 { return ic.machAt() }

// SetVe sets equivalent airspeed (fps): ve = vt*sqrt(rho/rho0).
func (ic *InitialCondition) SetVe(fps float64) {
	rho := ic.atmosphere.Density(ic.altitudeASLFt())
	ratio := math.Sqrt(seaLevelDensitySlugs / math.Max(rho, 1e-12))
	ic.vtFps = fps * ratio
	ic.speedSet = SpeedVe
	ic.recomputeAlphaBetaFromUVW()
}

// Ve returns equivalent airspeed (fps).
func (ic *InitialCondition) Ve() float64 {
	rho := ic.atmosphere.Density(ic.altitudeASLFt())
	return ic.vtFps * math.Sqrt(rho/seaLevelDensitySlugs)
}

// SetVc sets calibrated airspeed (fps), solving for the equivalent true
// airspeed via the Rayleigh pitot relation.
func (ic *InitialCondition) SetVc(fps float64) error {
	mach, err := ic.vcToMach(fps, ic.altitudeASLFt())
	if err != nil {
		return fmt.Errorf("set calibrated airspeed: %w", err)
	}
	a := ic.atmosphere.SoundSpeed(ic.altitudeASLFt())
	ic.vtFps = mach * a
	ic.speedSet = SpeedVc
	ic.recomputeAlphaBetaFromUVW()
	return nil
}

// Vc returns calibrated airspeed (fps), derived from the current Mach and
// altitude.
func (ic *InitialCondition) Vc() float64 {
	return ic.machToVc(ic.machAt(), ic.altitudeASLFt())
}

// --- body-component set ----------------------------------------------------

func (ic *InitialCondition) bodyVelocity() Vector3 {
	u := ic.vtFps * math.Cos(ic.alphaRad) * math.Cos(ic.betaRad)
	v := ic.vtFps * math.Sin(ic.betaRad)
	w := ic.vtFps * math.Sin(ic.alphaRad) * math.Cos(ic.betaRad)
	return Vector3{X: u, Y: v, Z: w}
}

// SetBodyVelocity sets (u, v, w): vt becomes their magnitude, last-speed
// switches to uvw, and (alpha, beta) are recomputed.
func (ic *InitialCondition) SetBodyVelocity(u, v, w float64) {
	ic.vtFps = Vector3{X: u, Y: v, Z: w}.Magnitude()
	if u != 0 || w != 0 {
		ic.alphaRad = math.Atan2(w, u)
	}
	if ic.vtFps != 0 {
		ic.betaRad = math.Asin(clampUnit(v / ic.vtFps))
	}
	ic.speedSet = SpeedUVW
}

func (ic *InitialCondition) recomputeAlphaBetaFromUVW() {
	// Setting a pure-speed parameter (vt/vc/ve/mach) holds alpha/beta and
	// only rescales the body velocity vector's magnitude; nothing to
	// recompute here beyond the cached vt already updated by the caller.
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// --- angle triad -----------------------------------------------------------

// verticalVelocityFunc evaluates f(theta, phi, alpha, beta, wind): the
// inertial (ground-relative) climb rate implied by body velocity built
// from (vtFps, alpha, beta), rotated by the Euler triple (phi, theta,
// psi) and summed with wind rotated into body axes: the gamma implicit
// equation.
func (ic *InitialCondition) verticalVelocityFunc(alpha, theta float64) float64 {
	u := ic.vtFps * math.Cos(alpha) * math.Cos(ic.betaRad)
	v := ic.vtFps * math.Sin(ic.betaRad)
	w := ic.vtFps * math.Sin(alpha) * math.Cos(ic.betaRad)
	bodyAir := Vector3{X: u, Y: v, Z: w}

	q := NewQuaternionFromEuler(ic.phiRad, theta, ic.psiRad)
	windBody := q.DCMLocalToBody().MultiplyVector(ic.windNED)
	bodyTotal := bodyAir.Add(windBody)
	ned := q.DCMBodyToLocal().MultiplyVector(bodyTotal)
	return -ned.Z
}

// gammaTarget is the vt*sin(gamma) side of the zero-crossing
// vt*sin(gamma) - f(theta, phi, alpha, beta, wind), solved with either
// theta or alpha as the free variable.
func (ic *InitialCondition) gammaTarget() float64 {
	return ic.vtFps * math.Sin(ic.gammaRad)
}

// SetAlpha sets angle of attack and recomputes theta using current gamma.
func (ic *InitialCondition) SetAlpha(alphaRad float64) error {
	oldAlpha := ic.alphaRad
	ic.alphaRad = alphaRad
	residual := func(theta float64) float64 {
		return ic.gammaTarget() - ic.verticalVelocityFunc(ic.alphaRad, theta)
	}
	theta, err := Solve(residual, ic.thetaRad, DefaultICSolveConfig(radians(-89), radians(89)))
	if err != nil {
		ic.alphaRad = oldAlpha
		return fmt.Errorf("set alpha: recompute theta: %w", err)
	}
	ic.thetaRad = theta
	return nil
}

// SetTheta sets pitch attitude and recomputes alpha using current gamma.
func (ic *InitialCondition) SetTheta(thetaRad float64) error {
	oldTheta := ic.thetaRad
	ic.thetaRad = thetaRad
	residual := func(alpha float64) float64 {
		return ic.gammaTarget() - ic.verticalVelocityFunc(alpha, ic.thetaRad)
	}
	alpha, err := Solve(residual, ic.alphaRad, DefaultICSolveConfig(radians(-90), radians(90)))
	if err != nil {
		ic.thetaRad = oldTheta
		return fmt.Errorf("set theta: recompute alpha: %w", err)
	}
	ic.alphaRad = alpha
	return nil
}

// SetGamma sets flight-path angle and recomputes theta using current
// alpha. Gamma is the most operationally meaningful of the triad, so it
// is never the solved-for member.
func (ic *InitialCondition) SetGamma(gammaRad float64) error {
	oldGamma := ic.gammaRad
	ic.gammaRad = gammaRad
	residual := func(theta float64) float64 {
		return ic.gammaTarget() - ic.verticalVelocityFunc(ic.alphaRad, theta)
	}
	theta, err := Solve(residual, ic.thetaRad, DefaultICSolveConfig(radians(-89), radians(89)))
	if err != nil {
		ic.gammaRad = oldGamma
		return fmt.Errorf("set gamma: recompute theta: %w", err)
	}
	ic.thetaRad = theta
	return nil
}

func (ic *InitialCondition) Alpha() float64 { return ic.alphaRad }
func (ic *InitialCondition) Theta() float64 { return ic.thetaRad }
func (ic *InitialCondition) Gamma() float64 { return ic.gammaRad }

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// --- beta-preserving set ---------------------------------------------------

// SetBeta holds vt, the direction of airspeed (including climb rate), and
// alpha unchanged, solving instead for theta and psi.
func (ic *InitialCondition) SetBeta(betaRad float64) error {
	airBefore := ic.airNEDVelocity()
	targetClimb := ic.verticalVelocityFunc(ic.alphaRad, ic.thetaRad)
	oldBeta := ic.betaRad
	ic.betaRad = betaRad

	residual := func(theta float64) float64 {
		return targetClimb - ic.verticalVelocityFunc(ic.alphaRad, theta)
	}
	theta, err := Solve(residual, ic.thetaRad, DefaultICSolveConfig(radians(-89), radians(89)))
	if err != nil {
		ic.betaRad = oldBeta
		return fmt.Errorf("set beta: recompute theta: %w", err)
	}
	ic.thetaRad = theta

	// Yaw is a rotation about the local down axis, so the horizontal
	// airspeed direction shifts one-for-one with psi: the previous track
	// is restored in closed form rather than through the solver.
	airAfter := ic.airNEDVelocity()
	if math.Hypot(airBefore.X, airBefore.Y) > 1e-9 && math.Hypot(airAfter.X, airAfter.Y) > 1e-9 {
		ic.psiRad = WrapTwoPi(ic.psiRad +
			math.Atan2(airBefore.Y, airBefore.X) - math.Atan2(airAfter.Y, airAfter.X))
	}
	return nil
}

// airNEDVelocity returns the air-relative velocity (no wind) rotated into
// local NED axes.
func (ic *InitialCondition) airNEDVelocity() Vector3 {
	return ic.orientation().DCMBodyToLocal().MultiplyVector(ic.bodyVelocity())
}

func (ic *InitialCondition) Beta() float64 { return ic.betaRad }

// --- attitude set / NED recompute -------------------------------------------

// SetPhi sets bank angle; recomputes body velocity in NED so the
// previously-set body velocity remains fixed unless the last-speed set
// was ned/vg, in which case NED velocity is held and body velocity is
// recomputed.
func (ic *InitialCondition) SetPhi(phiRad float64) {
	ic.applyAttitudeChange(phiRad, ic.thetaRad, ic.psiRad)
}

// SetPsi sets heading; same recompute rule as SetPhi.
func (ic *InitialCondition) SetPsi(psiRad float64) {
	ic.applyAttitudeChange(ic.phiRad, ic.thetaRad, psiRad)
}

func (ic *InitialCondition) applyAttitudeChange(phi, theta, psi float64) {
	if ic.speedSet == SpeedNED || ic.speedSet == SpeedVg {
		nedBefore := ic.nedVelocity()
		ic.phiRad, ic.thetaRad, ic.psiRad = phi, theta, psi
		q := ic.orientation()
		body := q.DCMLocalToBody().MultiplyVector(nedBefore)
		windBody := q.DCMLocalToBody().MultiplyVector(ic.windNED)
		air := body.Add(windBody.Scale(-1))
		ic.vtFps = air.Magnitude()
		if air.X != 0 || air.Z != 0 {
			ic.alphaRad = math.Atan2(air.Z, air.X)
		}
		if ic.vtFps != 0 {
			ic.betaRad = math.Asin(clampUnit(air.Y / ic.vtFps))
		}
		return
	}
	// Previous body velocity held fixed; recompute NED with the new
	// attitude (the field is derived on demand by NEDVelocity, so only
	// the attitude itself needs updating here).
	ic.phiRad, ic.thetaRad, ic.psiRad = phi, theta, psi
}

// nedVelocity returns the current body velocity (plus wind) rotated into
// local NED axes.
func (ic *InitialCondition) nedVelocity() Vector3 {
	q := ic.orientation()
	body := ic.bodyVelocity()
	windBody := q.DCMLocalToBody().MultiplyVector(ic.windNED)
	return q.DCMBodyToLocal().MultiplyVector(body.Add(windBody))
}

// SetNEDVelocity sets north/east/down ground velocity directly; last-speed
// becomes ned, and body velocity is derived from it.
func (ic *InitialCondition) SetNEDVelocity(north, east, down float64) {
	ic.applyNEDVelocity(north, east, down, SpeedNED)
}

// SetVground sets the horizontal ground speed, holding the current ground
// track (or the heading, when at rest) and climb rate; last-speed becomes
// vg.
func (ic *InitialCondition) SetVground(fps float64) {
	ned := ic.nedVelocity()
	horiz := math.Hypot(ned.X, ned.Y)
	var north, east float64
	if horiz > 1e-9 {
		north = ned.X / horiz * fps
		east = ned.Y / horiz * fps
	} else {
		north = fps * math.Cos(ic.psiRad)
		east = fps * math.Sin(ic.psiRad)
	}
	ic.applyNEDVelocity(north, east, ned.Z, SpeedVg)
}

// SetClimbRate sets the rate of climb (fps, positive up) by re-solving
// gamma for the current true airspeed.
func (ic *InitialCondition) SetClimbRate(rocFps float64) error {
	if ic.vtFps == 0 {
		return fmt.Errorf("set climb rate: zero airspeed: %w", ErrNoSolution)
	}
	return ic.SetGamma(math.Asin(clampUnit(rocFps / ic.vtFps)))
}

func (ic *InitialCondition) applyNEDVelocity(north, east, down float64, tag SpeedSet) {
	q := ic.orientation()
	ned := Vector3{X: north, Y: east, Z: down}
	windBody := q.DCMLocalToBody().MultiplyVector(ic.windNED)
	body := q.DCMLocalToBody().MultiplyVector(ned).Add(windBody.Scale(-1))
	ic.vtFps = body.Magnitude()
	if body.X != 0 || body.Z != 0 {
		ic.alphaRad = math.Atan2(body.Z, body.X)
	}
	if ic.vtFps != 0 {
		ic.betaRad = math.Asin(clampUnit(body.Y / ic.vtFps))
	}
	ic.speedSet = tag
}

// NEDVelocity returns the current ground velocity in NED axes.
func (ic *InitialCondition) NEDVelocity() Vector3 { return ic.nedVelocity() }

func (ic *InitialCondition) Phi() float64 { return ic.phiRad }
func (ic *InitialCondition) Psi() float64 { return WrapTwoPi(ic.psiRad) }

// --- wind ---------------------------------------------------------------

// SetWindNED sets the ambient wind vector the IC solver's attitude/speed
// recomputes reference.
func (ic *InitialCondition) SetWindNED(v Vector3) { ic.windNED = v }

// SetHeadCrossWind sets the wind from headwind/crosswind components
// relative to the current heading (headwind positive on the nose,
// crosswind positive from the right).
func (ic *InitialCondition) SetHeadCrossWind(headFps, crossFps float64) {
	sinPsi, cosPsi := math.Sin(ic.psiRad), math.Cos(ic.psiRad)
	ic.windNED = Vector3{
		X: -headFps*cosPsi - crossFps*sinPsi,
		Y: -headFps*sinPsi + crossFps*cosPsi,
	}
}

// WindNED returns the ambient wind vector.
func (ic *InitialCondition) WindNED() Vector3 { return ic.windNED }

// --- altitude ----------------------------------------------------------------

// SetAltitudeASL sets altitude above the reference ellipsoid and
// propagates to the last-speed parameterization.
func (ic *InitialCondition) SetAltitudeASL(hFt float64) error {
	return ic.setAltitude(hFt)
}

// SetAltitudeAGL sets altitude above local terrain.
func (ic *InitialCondition) SetAltitudeAGL(aglFt float64) error {
	return ic.setAltitude(aglFt + ic.elevationFt)
}

func (ic *InitialCondition) setAltitude(hFt float64) error {
	var held float64
	switch ic.speedSet {
	case SpeedMach:
		held = ic.machAt()
	case SpeedVe:
		held = ic.Ve()
	case SpeedVc:
		held = ic.Vc()
	}
	prev := ic.location
	lat := ic.location.GeocentricLatitude()
	lon := ic.location.Longitude()
	if err := ic.location.SetGeodetic(lat, lon, hFt); err != nil {
		return fmt.Errorf("set altitude: %w", err)
	}
	switch ic.speedSet {
	case SpeedVt:
		ic.SetVt(ic.vtFps)
	case SpeedMach:
		ic.SetMach(held)
	case SpeedVe:
		ic.SetVe(held)
	case SpeedVc:
		if err := ic.SetVc(held); err != nil {
			ic.location = prev
			return fmt.Errorf("set altitude: reapply calibrated airspeed: %w", err)
		}
	}
	ic.altitudeSet = AltitudeASL
	return nil
}

// SetElevation sets the local terrain elevation used by AGL conversions.
func (ic *InitialCondition) SetElevation(elevationFt float64) { ic.elevationFt = elevationFt }

// AltitudeASL, AltitudeAGL return the current altitude in each frame.
func (ic *InitialCondition) AltitudeASL() float64 { return ic.altitudeASLFt() }
func (ic *InitialCondition) AltitudeAGL() float64 { return ic.altitudeAGLFt() }

// SetLatitude, SetLongitude set position without touching altitude.
func (ic *InitialCondition) SetLatitude(latRad float64, geodetic bool) error {
	if geodetic {
		return ic.location.SetGeodetic(latRad, ic.location.Longitude(), ic.altitudeASLFt())
	}
	return ic.location.SetGeocentric(latRad, ic.location.Longitude(), ic.location.GeocentricRadius())
}

func (ic *InitialCondition) SetLongitude(lonRad float64) {
	ic.location.SetGeocentric(ic.location.GeocentricLatitude(), lonRad, ic.location.GeocentricRadius())
}

// Snapshot is an immutable copy of the IC state for the façade layer.
type Snapshot struct {
	Body        Vector3
	NED         Vector3
	Orientation Quaternion
	Location    Location
	LastSpeed   SpeedSet
}

// TakeSnapshot captures the current IC state.
func (ic *InitialCondition) TakeSnapshot() Snapshot {
	return Snapshot{
		Body:        ic.bodyVelocity(),
		NED:         ic.nedVelocity(),
		Orientation: ic.orientation(),
		Location:    ic.location,
		LastSpeed:   ic.speedSet,
	}
}
