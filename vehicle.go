package main

import (
	"fmt"
	"math"
)

const standardGravityFps2 = 32.174

// GravityModel is the inertial collaborator: reference radius,
// inverse-square gravity, and terrain-relative altitude queries.
type GravityModel struct {
	RefRadiusFt float64
	ElevationFt float64
}

func NewGravityModel(refRadiusFt float64) *GravityModel {
	return &GravityModel{RefRadiusFt: refRadiusFt}
}

func (g *GravityModel) ReferenceRadiusFt() float64 { return g.RefRadiusFt }

func (g *GravityModel) GravityAt(loc Location) float64 {
	r := loc.GeocentricRadius()
	if r <= 0 {
		r = g.RefRadiusFt
	}
	return standardGravityFps2 * (g.RefRadiusFt * g.RefRadiusFt) / (r * r)
}

// AGL returns height above the local terrain elevation.
func (g *GravityModel) AGL(loc Location) float64 {
	return loc.GeodeticAltitude() - g.ElevationFt
}

var _ Inertial = (*GravityModel)(nil)

// GearUnit is one ground contact: a body-frame location and the
// spring/damper pair its vertical reaction is built from.
type GearUnit struct {
	Name              string
	BodyFt            Vector3
	SpringLbsPerFt    float64
	DampingLbsPerFtps float64
}

// GearSuite owns the gear units. Pose (orientation plus height above
// ground of the reference point) is supplied by the owning vehicle
// through a callback, so the suite never holds a pointer back to it.
type GearSuite struct {
	units     []GearUnit
	poseFn    func() (orientation Quaternion, aglFt float64, sinkFps float64)
	reporting bool
	logger    Logger
}

// NewGearSuite builds gear units from the vehicle document's
// ground_reactions section, in document order. Units are expected to be
// authored nose-first; the pre-leveling bootstrap reads the first and
// last entries as the forward and rearward units.
func NewGearSuite(cfg *ConfigGroundReactions, logger Logger) (*GearSuite, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	gs := &GearSuite{logger: logger}
	if cfg == nil {
		return gs, nil
	}
	for _, c := range cfg.Contacts {
		loc, err := c.Location.BodyFt()
		if err != nil {
			return nil, fmt.Errorf("gear suite: contact %q: %w", c.Name, err)
		}
		spring, err := c.Spring.In(UnitPoundPerFoot)
		if err != nil {
			return nil, fmt.Errorf("gear suite: contact %q spring: %w", c.Name, err)
		}
		damping, err := c.Damping.In(UnitPoundPerFootSec)
		if err != nil {
			return nil, fmt.Errorf("gear suite: contact %q damping: %w", c.Name, err)
		}
		gs.units = append(gs.units, GearUnit{
			Name:              c.Name,
			BodyFt:            loc,
			SpringLbsPerFt:    spring,
			DampingLbsPerFtps: damping,
		})
	}
	return gs, nil
}

// SetPoseFunc injects the pose callback.
func (gs *GearSuite) SetPoseFunc(f func() (Quaternion, float64, float64)) { gs.poseFn = f }

func (gs *GearSuite) pose() (Quaternion, float64, float64) {
	if gs.poseFn == nil {
		return Quaternion{W: 1}, 0, 0
	}
	return gs.poseFn()
}

func (gs *GearSuite) GearCount() int { return len(gs.units) }

// GearLocationBody returns the unit's body-frame location.
func (gs *GearSuite) GearLocationBody(gear int) Vector3 {
	if gear < 0 || gear >= len(gs.units) {
		return Vector3{}
	}
	return gs.units[gear].BodyFt
}

// GearLocationLocal returns the unit's location in local NED axes,
// relative to the reference point.
func (gs *GearSuite) GearLocationLocal(gear int) Vector3 {
	if gear < 0 || gear >= len(gs.units) {
		return Vector3{}
	}
	q, _, _ := gs.pose()
	return q.DCMBodyToLocal().MultiplyVector(gs.units[gear].BodyFt)
}

// WeightOnWheels reports whether the unit touches the terrain: the unit's
// down-axis offset reaches the reference point's height above ground.
func (gs *GearSuite) WeightOnWheels(gear int) bool {
	if gear < 0 || gear >= len(gs.units) {
		return false
	}
	_, agl, _ := gs.pose()
	return gs.GearLocationLocal(gear).Z >= agl-1e-6
}

func (gs *GearSuite) SetReporting(on bool) { gs.reporting = on }

// ForcesMoments sums the spring/damper reaction of every compressed unit.
// Forces are body-frame lbs, moments about the reference point.
func (gs *GearSuite) ForcesMoments() (force, moment Vector3) {
	q, agl, sink := gs.pose()
	b2l := q.DCMBodyToLocal()
	l2b := b2l.Transpose()
	for i := range gs.units {
		u := &gs.units[i]
		localZ := b2l.MultiplyVector(u.BodyFt).Z
		penetration := localZ - agl
		if penetration <= 0 {
			continue
		}
		normal := u.SpringLbsPerFt*penetration + u.DampingLbsPerFtps*sink
		if normal < 0 {
			normal = 0
		}
		if gs.reporting {
			gs.logger.Debugf("gear %s: penetration %.3f ft, normal %.1f lbs", u.Name, penetration, normal)
		}
		f := l2b.MultiplyVector(Vector3{Z: -normal})
		force = force.Add(f)
		moment = moment.Add(u.BodyFt.Cross(f))
	}
	return force, moment
}

var _ GroundReactions = (*GearSuite)(nil)

// VehicleDerivatives is one evaluation of the equations of motion.
type VehicleDerivatives struct {
	UVWdot   Vector3
	PQRdot   Vector3
	QDot     Quaternion
	HDot     float64 // altitude rate, positive up
	NED      Vector3 // ground velocity at the evaluated state
}

// Vehicle is the rigid body behind the propagation handle. It aggregates
// the aerodynamic, propulsive, and ground-reaction buildups into body
// accelerations, and advances its own state with a fourth-order
// Runge-Kutta step. Until the first Step it mirrors the IC solver, so
// quasi-static probes against it see every IC and control change
// immediately.
type Vehicle struct {
	logger     Logger
	atmosphere *Atmosphere
	ic         *InitialCondition

	Aero       *AeroModel
	Propulsion *PropulsionSuite
	Controls   *FlightControls
	Gear       *GearSuite
	Gravity    *GravityModel

	massSlug   float64
	inertia    Matrix3
	inertiaInv Matrix3

	location    Location
	orientation Quaternion
	uvw, pqr    Vector3
	windNED     Vector3

	timeSec  float64
	followIC bool
}

// NewVehicle builds the full collaborator suite from a vehicle document.
func NewVehicle(cfg *AircraftConfig, atmosphere *Atmosphere, ic *InitialCondition, logger Logger) (*Vehicle, error) {
	if cfg == nil || atmosphere == nil || ic == nil {
		return nil, fmt.Errorf("vehicle: %w", ErrMissingCollaborator)
	}
	if logger == nil {
		logger = NoopLogger{}
	}

	aero, err := NewAeroModel(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("vehicle: metrics: %w", err)
	}

	engineCount := 1
	if cfg.Propulsion != nil && len(cfg.Propulsion.Engines) > 0 {
		engineCount = len(cfg.Propulsion.Engines)
	}
	controls := NewFlightControls(engineCount)
	controls.ApplyChannelConfig(cfg.FlightControl)

	propulsion, err := NewPropulsionSuite(cfg.Propulsion, controls, logger)
	if err != nil {
		return nil, fmt.Errorf("vehicle: %w", err)
	}

	gear, err := NewGearSuite(cfg.GroundReactions, logger)
	if err != nil {
		return nil, fmt.Errorf("vehicle: %w", err)
	}

	weightLbs, err := cfg.MassBalance.EmptyWeight.In(UnitPound)
	if err != nil {
		return nil, fmt.Errorf("vehicle: emptywt: %w", err)
	}
	ixx, err := cfg.MassBalance.Ixx.In(UnitSlugFoot2)
	if err != nil {
		return nil, fmt.Errorf("vehicle: ixx: %w", err)
	}
	iyy, err := cfg.MassBalance.Iyy.In(UnitSlugFoot2)
	if err != nil {
		return nil, fmt.Errorf("vehicle: iyy: %w", err)
	}
	izz, err := cfg.MassBalance.Izz.In(UnitSlugFoot2)
	if err != nil {
		return nil, fmt.Errorf("vehicle: izz: %w", err)
	}
	ixz, err := cfg.MassBalance.Ixz.In(UnitSlugFoot2)
	if err != nil {
		return nil, fmt.Errorf("vehicle: ixz: %w", err)
	}

	v := &Vehicle{
		logger:     logger,
		atmosphere: atmosphere,
		ic:         ic,
		Aero:       aero,
		Propulsion: propulsion,
		Controls:   controls,
		Gear:       gear,
		Gravity:    NewGravityModel(earthPolarRadiusFt),
		massSlug:   weightLbs / standardGravityFps2,
		inertia: Matrix3{
			XX: ixx, XZ: -ixz,
			YY: iyy,
			ZX: -ixz, ZZ: izz,
		},
		followIC: true,
	}
	v.inertiaInv = v.inertia.Inverse()
	gear.SetPoseFunc(func() (Quaternion, float64, float64) {
		q := v.currentOrientation()
		agl := v.AltitudeAGLFt()
		sink := v.nedVelocity().Z
		return q, agl, sink
	})
	return v, nil
}

// MassSlug returns the vehicle mass.
func (v *Vehicle) MassSlug() float64 { return v.massSlug }

// SetWindNED feeds the winds component's summed NED wind into the aero
// buildup.
func (v *Vehicle) SetWindNED(w Vector3) { v.windNED = w }

// syncFromIC pulls the IC solver's state into the rigid body. Called
// implicitly by every accessor until the first integration step commits
// the vehicle to its own state.
func (v *Vehicle) syncFromIC() {
	snap := v.ic.TakeSnapshot()
	v.location = snap.Location
	v.orientation = snap.Orientation
	// The snapshot's body velocity is air-relative; the rigid body carries
	// the inertial velocity, so wind is added back here and removed again
	// inside the aero buildup.
	v.windNED = v.ic.WindNED()
	v.uvw = snap.Orientation.DCMLocalToBody().MultiplyVector(snap.NED)
	v.pqr = Vector3{X: v.ic.pRad, Y: v.ic.qRad, Z: v.ic.rRad}
	v.Gravity.ElevationFt = v.ic.elevationFt
}

func (v *Vehicle) currentOrientation() Quaternion {
	if v.followIC {
		v.syncFromIC()
	}
	return v.orientation
}

func (v *Vehicle) nedVelocity() Vector3 {
	return v.currentOrientation().DCMBodyToLocal().MultiplyVector(v.uvw)
}

// derivativesAt evaluates the equations of motion for an arbitrary
// (uvw, pqr, orientation, altitude) state at settled controls and
// steady-state thrust.
func (v *Vehicle) derivativesAt(uvw, pqr Vector3, q Quaternion, hFt float64) VehicleDerivatives {
	rho := v.atmosphere.Density(hFt)

	// Aerodynamics act on the air-relative velocity; the kinematic terms
	// below stay on the inertial body velocity.
	air := uvw.Subtract(q.DCMLocalToBody().MultiplyVector(v.windNED))
	vt := air.Magnitude()
	qbar := 0.5 * rho * vt * vt

	alpha, beta := 0.0, 0.0
	if air.X != 0 || air.Z != 0 {
		alpha = math.Atan2(air.Z, air.X)
	}
	if vt > 0 {
		beta = math.Asin(clampUnit(air.Y / vt))
	}

	// Quasi-static probes (mirroring the IC solver) see commanded values;
	// once detached, the actuator positions drive the buildup.
	var elevator, aileron, rudder float64
	if v.followIC {
		elevator, aileron, rudder = v.Controls.SurfaceCommands()
	} else {
		elevator, aileron, rudder = v.Controls.SurfacePositions()
	}
	force, moment := v.Aero.ForcesMoments(qbar, alpha, beta, vt, pqr, elevator, aileron, rudder)

	v.Propulsion.SetDensityRatio(rho / seaLevelDensitySlugs)
	force = force.Add(Vector3{X: v.Propulsion.SteadyThrustLbs()})

	g := v.Gravity.GravityAt(v.location)
	force = force.Add(q.DCMLocalToBody().MultiplyVector(Vector3{Z: v.massSlug * g}))

	gearF, gearM := v.Gear.ForcesMoments()
	force = force.Add(gearF)
	moment = moment.Add(gearM)

	uvwDot := force.Scale(1 / v.massSlug).Subtract(pqr.Cross(uvw))
	pqrDot := v.inertiaInv.MultiplyVector(moment.Subtract(pqr.Cross(v.inertia.MultiplyVector(pqr))))
	ned := q.DCMBodyToLocal().MultiplyVector(uvw)

	return VehicleDerivatives{
		UVWdot: uvwDot,
		PQRdot: pqrDot,
		QDot:   q.Derivative(pqr),
		HDot:   -ned.Z,
		NED:    ned,
	}
}

// Derivatives evaluates the equations of motion at the current state.
func (v *Vehicle) Derivatives() VehicleDerivatives {
	if v.followIC {
		v.syncFromIC()
	}
	return v.derivativesAt(v.uvw, v.pqr, v.orientation, v.location.GeodeticAltitude())
}

// Step advances the rigid body by dt with a classical RK4 pass over the
// coupled (uvw, pqr, quaternion, altitude) state, then renormalizes the
// quaternion. The first call detaches the vehicle from the IC solver.
func (v *Vehicle) Step(dt float64) error {
	if v.followIC {
		v.syncFromIC()
		v.followIC = false
	}
	v.Controls.Step(dt)
	v.Propulsion.Update(dt)

	h := v.location.GeodeticAltitude()

	eval := func(uvw, pqr Vector3, q Quaternion, alt float64) VehicleDerivatives {
		return v.derivativesAt(uvw, pqr, q.Normalize(), alt)
	}

	k1 := eval(v.uvw, v.pqr, v.orientation, h)
	k2 := eval(
		v.uvw.Add(k1.UVWdot.Scale(dt/2)),
		v.pqr.Add(k1.PQRdot.Scale(dt/2)),
		v.orientation.Add(k1.QDot.Scale(dt/2)),
		h+k1.HDot*dt/2,
	)
	k3 := eval(
		v.uvw.Add(k2.UVWdot.Scale(dt/2)),
		v.pqr.Add(k2.PQRdot.Scale(dt/2)),
		v.orientation.Add(k2.QDot.Scale(dt/2)),
		h+k2.HDot*dt/2,
	)
	k4 := eval(
		v.uvw.Add(k3.UVWdot.Scale(dt)),
		v.pqr.Add(k3.PQRdot.Scale(dt)),
		v.orientation.Add(k3.QDot.Scale(dt)),
		h+k3.HDot*dt,
	)

	sixth := dt / 6
	v.uvw = v.uvw.Add(k1.UVWdot.Add(k2.UVWdot.Scale(2)).Add(k3.UVWdot.Scale(2)).Add(k4.UVWdot).Scale(sixth))
	v.pqr = v.pqr.Add(k1.PQRdot.Add(k2.PQRdot.Scale(2)).Add(k3.PQRdot.Scale(2)).Add(k4.PQRdot).Scale(sixth))
	v.orientation = v.orientation.Add(
		k1.QDot.Add(k2.QDot.Scale(2)).Add(k3.QDot.Scale(2)).Add(k4.QDot).Scale(sixth),
	).Normalize()

	hNew := h + (k1.HDot+2*k2.HDot+2*k3.HDot+k4.HDot)*sixth
	lat := v.location.GeodeticLatitude()
	lon := v.location.Longitude()
	if err := v.location.SetGeodetic(lat, lon, hNew); err != nil {
		return fmt.Errorf("vehicle step: %w", err)
	}
	v.timeSec += dt
	return nil
}

// TimeSec returns elapsed integration time.
func (v *Vehicle) TimeSec() float64 { return v.timeSec }

// --- propagation handle ----------------------------------------------------

func (v *Vehicle) AltitudeMSLFt() float64 {
	if v.followIC {
		v.syncFromIC()
	}
	return v.location.GeodeticAltitude()
}

func (v *Vehicle) AltitudeAGLFt() float64 {
	return v.AltitudeMSLFt() - v.Gravity.ElevationFt
}

func (v *Vehicle) EulerAngles() Euler {
	return v.currentOrientation().ToEulerTriple()
}

func (v *Vehicle) BodyAccelerations() Vector3 {
	return v.Derivatives().UVWdot
}

func (v *Vehicle) AngularAccelerations() Vector3 {
	return v.Derivatives().PQRdot
}

func (v *Vehicle) SinCosEuler() (sinPhi, cosPhi, sinTheta, cosTheta, sinPsi, cosPsi float64) {
	e := v.EulerAngles()
	return math.Sin(e.Phi), math.Cos(e.Phi),
		math.Sin(e.Theta), math.Cos(e.Theta),
		math.Sin(e.Psi), math.Cos(e.Psi)
}

// TerrainContact reports whether any gear unit carries weight.
func (v *Vehicle) TerrainContact() bool {
	for i := 0; i < v.Gear.GearCount(); i++ {
		if v.Gear.WeightOnWheels(i) {
			return true
		}
	}
	return false
}

// TerrainNormal is the flat-terrain up normal in NED.
func (v *Vehicle) TerrainNormal() Vector3 { return Vector3{Z: -1} }

var _ Propagate = (*Vehicle)(nil)
