package main

import "math"

// AeroCoefficients is a stability-derivative buildup for a conventional
// airframe. Deflection inputs are normalized surface positions, not
// radians of surface travel; the control derivatives absorb the gearing.
type AeroCoefficients struct {
	CL0, CLalpha, CLq, CLde float64
	CD0, CDk                float64
	CYbeta, CYdr            float64
	Cl0, Clbeta, Clp, Clda, Cldr float64
	Cm0, Cmalpha, Cmq, Cmde float64
	Cnbeta, Cnr, Cnda, Cndr float64

	AlphaStallMin, AlphaStallMax float64
}

// defaultAeroCoefficients is a light-single-class derivative set.
func defaultAeroCoefficients() AeroCoefficients {
	return AeroCoefficients{
		CL0: 0.25, CLalpha: 4.7, CLq: 3.9, CLde: 0.4,
		CD0: 0.028, CDk: 0.054,
		CYbeta: -0.31, CYdr: 0.19,
		Clbeta: -0.089, Clp: -0.47, Clda: 0.23, Cldr: 0.0147,
		Cm0: 0.02, Cmalpha: -0.89, Cmq: -12.4, Cmde: -1.28,
		Cnbeta: 0.065, Cnr: -0.099, Cnda: -0.0053, Cndr: -0.069,
		AlphaStallMin: -12 * math.Pi / 180,
		AlphaStallMax: 16 * math.Pi / 180,
	}
}

// AeroModel evaluates body-frame aerodynamic forces and moments for the
// vehicle's reference geometry, and holds the latest aero angles for the
// read-only handle the trim engine consumes.
type AeroModel struct {
	Coeff    AeroCoefficients
	WingArea float64 // ft^2
	WingSpan float64 // ft
	Chord    float64 // ft

	alphaRad float64
	betaRad  float64
}

// NewAeroModel builds an aero model from the vehicle document's metrics.
func NewAeroModel(metrics *ConfigMetrics) (*AeroModel, error) {
	m := &AeroModel{Coeff: defaultAeroCoefficients()}
	var err error
	if m.WingArea, err = metrics.WingArea.In(UnitFoot2); err != nil {
		return nil, err
	}
	if m.WingSpan, err = metrics.WingSpan.In(UnitFoot); err != nil {
		return nil, err
	}
	if m.Chord, err = metrics.Chord.In(UnitFoot); err != nil {
		return nil, err
	}
	return m, nil
}

// SetAngles records the latest aero angles computed from the body
// velocity.
func (m *AeroModel) SetAngles(alphaRad, betaRad float64) {
	m.alphaRad = alphaRad
	m.betaRad = betaRad
}

func (m *AeroModel) Alpha() float64 { return m.alphaRad }
func (m *AeroModel) Beta() float64  { return m.betaRad }

// AlphaLimits reports the usable alpha range for trim bounds.
func (m *AeroModel) AlphaLimits() (min, max float64) {
	return m.Coeff.AlphaStallMin, m.Coeff.AlphaStallMax
}

// ForcesMoments evaluates the buildup at dynamic pressure qbar (psf) for
// the given aero angles, body rates, true airspeed, and normalized surface
// deflections. Forces are returned in body axes (lbs), moments about body
// axes (ft-lbs).
func (m *AeroModel) ForcesMoments(qbar, alpha, beta, vt float64, rates Vector3, elevator, aileron, rudder float64) (force, moment Vector3) {
	c := m.Coeff
	m.SetAngles(alpha, beta)

	// Nondimensional rates. Guard vt: the buildup is called at rest during
	// ground trim.
	v := math.Max(vt, 1)
	pHat := rates.X * m.WingSpan / (2 * v)
	qHat := rates.Y * m.Chord / (2 * v)
	rHat := rates.Z * m.WingSpan / (2 * v)

	effAlpha := clamp(alpha, c.AlphaStallMin, c.AlphaStallMax)
	cl := c.CL0 + c.CLalpha*effAlpha + c.CLq*qHat + c.CLde*elevator
	cd := c.CD0 + c.CDk*cl*cl
	cy := c.CYbeta*beta + c.CYdr*rudder

	lift := qbar * m.WingArea * cl
	drag := qbar * m.WingArea * cd
	side := qbar * m.WingArea * cy

	// Wind axes to body axes through alpha; the small-beta drag component
	// is folded into the x/z projection.
	sinA, cosA := math.Sin(alpha), math.Cos(alpha)
	force = Vector3{
		X: -drag*cosA + lift*sinA,
		Y: side,
		Z: -drag*sinA - lift*cosA,
	}

	croll := c.Cl0 + c.Clbeta*beta + c.Clp*pHat + c.Clda*aileron + c.Cldr*rudder
	cpitch := c.Cm0 + c.Cmalpha*effAlpha + c.Cmq*qHat + c.Cmde*elevator
	cyaw := c.Cnbeta*beta + c.Cnr*rHat + c.Cnda*aileron + c.Cndr*rudder

	moment = Vector3{
		X: qbar * m.WingArea * m.WingSpan * croll,
		Y: qbar * m.WingArea * m.Chord * cpitch,
		Z: qbar * m.WingArea * m.WingSpan * cyaw,
	}
	return force, moment
}

var _ Aerodynamics = (*AeroModel)(nil)
