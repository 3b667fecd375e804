package main

import (
	"fmt"
	"math"
)

// Re is the geopotential-altitude reference radius.
const reEarthFt = 20855531.49

// g0Earth, gasConstantAirFtLbSlugR are the standard-atmosphere constants
// the pressure and density formulas are built on.
const (
	g0Earth                   = 32.174049 // ft/s^2
	gasConstantAirFtLbSlugR   = 1716.59   // ft*lbf/(slug*R), dry air
	seaLevelTemperatureStdR   = 518.67
	seaLevelPressureStdPSF    = 2116.228
	viscosityBetaSlugFtSecR05 = 2.2697e-8
	viscositySutherlandSR     = 198.72
)

// ussaLayer is one breakpoint of the 1976 USSA piecewise model: a
// geopotential altitude (ft), the standard (bias-free) base temperature at
// that altitude (R), and the lapse rate (R/ft) of the layer that begins at
// that altitude.
type ussaLayer struct {
	H float64
	T float64
	L float64
}

// ussaLayers are the eight 1976 USSA breakpoints (0 through ~282,152 ft
// geopotential).
var ussaLayers = []ussaLayer{
	{0, 518.67, -0.0035662},
	{36089.239, 389.97, 0},
	{65616.798, 389.97, 0.00054864},
	{104986.879, 411.57, 0.0015364},
	{154199.475, 487.17, 0},
	{167322.835, 487.17, -0.0015362},
	{232939.637, 386.37, -0.0010133},
	{282152.230, 336.5028, 0},
}

// AtmosphereBreakpoints is the ordered sequence of (geopotential altitude,
// temperature) breakpoints plus per-layer lapse rate and pressure.
type AtmosphereBreakpoints struct {
	H []float64
	T []float64 // standard base temperature at each breakpoint
	L []float64 // lapse rate of the layer starting at H[i]
	P []float64 // standard pressure at each breakpoint, derived from P[0]
}

// buildBreakpoints derives the pressure column from sea-level pressure and
// the lapse-rate sequence, so pressure at layer i is exactly reproducible
// from pressure at layer 0 and the lapse-rate sequence.
func buildBreakpoints(p0 float64) *AtmosphereBreakpoints {
	n := len(ussaLayers)
	bp := &AtmosphereBreakpoints{
		H: make([]float64, n),
		T: make([]float64, n),
		L: make([]float64, n),
		P: make([]float64, n),
	}
	bp.P[0] = p0
	for i, l := range ussaLayers {
		bp.H[i], bp.T[i], bp.L[i] = l.H, l.T, l.L
	}
	for i := 1; i < n; i++ {
		Tb, Lb, Hb := bp.T[i-1], bp.L[i-1], bp.H[i-1]
		dH := bp.H[i] - Hb
		if Lb != 0 {
			bp.P[i] = bp.P[i-1] * math.Pow(Tb/(Tb+Lb*dH), g0Earth/(gasConstantAirFtLbSlugR*Lb))
		} else {
			bp.P[i] = bp.P[i-1] * math.Exp(-g0Earth*dH/(gasConstantAirFtLbSlugR*Tb))
		}
	}
	return bp
}

// layerIndex locates b such that H in [H[b], H[b+1]), clamping to the
// table's top and bottom.
func (bp *AtmosphereBreakpoints) layerIndex(H float64) int {
	n := len(bp.H)
	if H <= bp.H[0] {
		return 0
	}
	if H >= bp.H[n-1] {
		return n - 1
	}
	lo, hi := 0, n-1
	for lo < hi-1 {
		mid := (lo + hi) / 2
		if bp.H[mid] <= H {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Planet selects which atmosphere model governs an Atmosphere instance.
// Earth and Mars are the only supported environments.
type Planet int

const (
	PlanetEarth Planet = iota
	PlanetMars
)

// HumidityMode records which humidity setter was last used; only one is
// authoritative at a time.
type HumidityMode int

const (
	HumidityNone HumidityMode = iota
	HumidityDewPoint
	HumidityRelative
	HumidityVaporFractionPPM
	HumidityVaporPressure
)

const (
	magnusA = 611.2  // Pa
	magnusB = 17.62  // dimensionless
	magnusC = 243.12 // deg C

	psfToPa = 47.880259

	marsGasConstantCO2FtLbSlugR = 1149.0
	marsGammaCO2                = 1.289
)

// maxVaporPPMTable is a literature-sourced (approximate) ceiling on vapor
// mass fraction as a function of geometric altitude.
var maxVaporPPMTable = NewTable1D(
	[]float64{0, 5000, 10000, 20000, 30000, 40000, 50000},
	[]float64{40000, 30000, 20000, 8000, 2000, 200, 0},
)

// Atmosphere is the 1976 U.S. Standard Atmosphere:
// temperature/pressure/density/sound-speed as a function of geometric
// altitude, with user bias/gradient and Magnus-formula humidity, plus the
// Mars variant.
type Atmosphere struct {
	planet Planet
	logger Logger

	std *AtmosphereBreakpoints // fixed reference table at standard SL pressure
	cur *AtmosphereBreakpoints // rebuilt whenever sea-level pressure changes

	seaLevelPressurePSF    float64
	seaLevelTemperatureR   float64
	temperatureBiasR       float64
	gradedDeltaRatePerFt   float64 // graded-delta rate, R per ft of (Hfade - H)

	humidityMode         HumidityMode
	dewPointR            float64
	relativeHumidity     float64 // 0..1
	vaporMassFractionPPM float64
	vaporPressurePa      float64
}

// NewAtmosphere builds a standard atmosphere for planet, defaulting to the
// standard sea-level pressure/temperature and zero bias/humidity.
func NewAtmosphere(planet Planet, logger Logger) *Atmosphere {
	if logger == nil {
		logger = NoopLogger{}
	}
	std := buildBreakpoints(seaLevelPressureStdPSF)
	a := &Atmosphere{
		planet:               planet,
		logger:               logger,
		std:                  std,
		cur:                  std,
		seaLevelPressurePSF:  seaLevelPressureStdPSF,
		seaLevelTemperatureR: seaLevelTemperatureStdR,
	}
	return a
}

func (a *Atmosphere) hFade() float64 {
	return a.std.H[len(a.std.H)-1]
}

func (a *Atmosphere) geopotentialAltitude(hFt float64) float64 {
	return hFt * reEarthFt / (reEarthFt + hFt)
}

// marsTemperatureR returns the Mars-variant temperature at geometric
// altitude hFt: two linear branches stitched at 22,960 ft.
func marsTemperatureR(hFt float64) float64 {
	var tF float64
	if hFt > 22960 {
		tF = -23.4 - 0.00222*hFt
	} else {
		tF = -10.34 - 0.00150*hFt
	}
	return tF + 459.67
}

func marsPressurePSF(hFt float64) float64 {
	return 14.62 * math.Exp(-3e-5*hFt)
}

// temperatureStd returns the standard (no bias, no gradient) temperature at
// geometric altitude hFt.
func (a *Atmosphere) temperatureStd(hFt float64) float64 {
	if a.planet == PlanetMars {
		return marsTemperatureR(hFt)
	}
	H := a.geopotentialAltitude(hFt)
	b := a.cur.layerIndex(H)
	T := a.cur.T[b] + a.cur.L[b]*(H-a.cur.H[b])
	if math.IsNaN(T) || math.IsInf(T, 0) || T <= 0 {
		return a.cur.T[b]
	}
	return T
}

// Temperature returns actual geometric-altitude temperature (R), including
// user bias and graded-delta fade.
func (a *Atmosphere) Temperature(hFt float64) float64 {
	std := a.temperatureStd(hFt)
	if a.planet == PlanetMars {
		return std
	}
	H := a.geopotentialAltitude(hFt)
	excess := a.temperatureBiasR + a.gradedDeltaRatePerFt*(a.hFade()-H)
	T := std + excess
	if math.IsNaN(T) || math.IsInf(T, 0) || T <= 0 {
		b := a.cur.layerIndex(H)
		return a.cur.T[b]
	}
	return T
}

// Pressure returns actual geometric-altitude pressure (psf). Pressure is
// unaffected by temperature bias (the layer equation uses the layer's
// unbiased base temperature), and scales with any user sea-level-pressure
// override.
func (a *Atmosphere) Pressure(hFt float64) float64 {
	if a.planet == PlanetMars {
		return marsPressurePSF(hFt)
	}
	H := a.geopotentialAltitude(hFt)
	b := a.cur.layerIndex(H)
	Tb, Lb, Hb, Pb := a.cur.T[b], a.cur.L[b], a.cur.H[b], a.cur.P[b]
	dH := H - Hb
	if Lb != 0 {
		return Pb * math.Pow(Tb/(Tb+Lb*dH), g0Earth/(gasConstantAirFtLbSlugR*Lb))
	}
	return Pb * math.Exp(-g0Earth*dH/(gasConstantAirFtLbSlugR*Tb))
}

func (a *Atmosphere) gasConstant(hFt float64) float64 {
	if a.planet == PlanetMars {
		return marsGasConstantCO2FtLbSlugR
	}
	w := a.vaporMassFractionAt(hFt)
	return gasConstantAirFtLbSlugR * (1 + 0.6077*w)
}

// Density returns actual air density (slug/ft^3), via the ideal gas law
// with the humidity-adjusted gas constant.
func (a *Atmosphere) Density(hFt float64) float64 {
	return a.Pressure(hFt) / (a.gasConstant(hFt) * a.Temperature(hFt))
}

// SoundSpeed returns the local speed of sound (ft/s).
func (a *Atmosphere) SoundSpeed(hFt float64) float64 {
	gamma := 1.4
	R := gasConstantAirFtLbSlugR
	if a.planet == PlanetMars {
		gamma = marsGammaCO2
		R = marsGasConstantCO2FtLbSlugR
	}
	return math.Sqrt(gamma * R * a.Temperature(hFt))
}

// AbsoluteViscosity returns Sutherland's-law viscosity (slug/(ft*s)).
func (a *Atmosphere) AbsoluteViscosity(hFt float64) float64 {
	T := a.Temperature(hFt)
	return viscosityBetaSlugFtSecR05 * math.Pow(T, 1.5) / (viscositySutherlandSR + T)
}

// KinematicViscosity returns AbsoluteViscosity / Density (ft^2/s).
func (a *Atmosphere) KinematicViscosity(hFt float64) float64 {
	return a.AbsoluteViscosity(hFt) / a.Density(hFt)
}

// DensityAltitude returns the altitude, in the unbiased standard
// atmosphere, whose density matches the actual density at hFt.
func (a *Atmosphere) DensityAltitude(hFt float64) (float64, error) {
	target := a.Density(hFt)
	ref := NewAtmosphere(a.planet, NoopLogger{})
	f := func(x float64) float64 { return ref.Density(x) - target }
	return Solve(f, hFt, DefaultICSolveConfig(0, a.hFade()))
}

// PressureAltitude returns the altitude, in the unbiased standard
// atmosphere, whose pressure matches the actual pressure at hFt.
func (a *Atmosphere) PressureAltitude(hFt float64) (float64, error) {
	target := a.Pressure(hFt)
	ref := NewAtmosphere(a.planet, NoopLogger{})
	f := func(x float64) float64 { return ref.Pressure(x) - target }
	return Solve(f, hFt, DefaultICSolveConfig(0, a.hFade()))
}

// SetSeaLevelTemperature sets the sea-level temperature, given in unit.
// Internally this is just another way to state a temperature bias: the
// stored bias becomes (t - standard sea-level temperature), applied at
// every layer the same way SetTemperatureBias is. Both setters replace the
// same stored bias, so the later call wins.
func (a *Atmosphere) SetSeaLevelTemperature(t float64, unit string) error {
	var tR float64
	switch unit {
	case "R":
		tR = t
	case "F":
		tR = t + 459.67
	case "C":
		tR = t*9/5 + 491.67
	case "K":
		tR = t * 9 / 5
	default:
		return fmt.Errorf("set sea level temperature: %w", ErrBadUnit)
	}
	a.seaLevelTemperatureR = tR
	a.temperatureBiasR = tR - seaLevelTemperatureStdR
	return nil
}

// SetTemperatureBias sets a constant offset added to every layer's
// temperature.
func (a *Atmosphere) SetTemperatureBias(deltaR float64) {
	a.temperatureBiasR = deltaR
}

// SetGradedDeltaTemperature establishes a bias of delta (R) at geometric
// altitude hFt that fades linearly to zero at the topmost table altitude.
func (a *Atmosphere) SetGradedDeltaTemperature(delta, hFt float64) {
	H := a.geopotentialAltitude(hFt)
	span := a.hFade() - H
	if span == 0 {
		a.gradedDeltaRatePerFt = 0
		return
	}
	a.gradedDeltaRatePerFt = delta / span
}

// SetSeaLevelPressure sets sea-level pressure, given in unit, and rebuilds
// the pressure breakpoint column so every layer above it scales
// consistently.
func (a *Atmosphere) SetSeaLevelPressure(p float64, unit string) error {
	switch unit {
	case "PSF":
		a.seaLevelPressurePSF = p
	case "INHG":
		a.seaLevelPressurePSF = p * 70.726
	case "PA":
		a.seaLevelPressurePSF = p / psfToPa
	default:
		return fmt.Errorf("set sea level pressure: %w", ErrBadUnit)
	}
	a.cur = buildBreakpoints(a.seaLevelPressurePSF)
	return nil
}

// ResetSeaLevelPressure restores the standard sea-level pressure.
func (a *Atmosphere) ResetSeaLevelPressure() {
	a.seaLevelPressurePSF = seaLevelPressureStdPSF
	a.cur = a.std
}

// SetDewPoint sets humidity via dew point (R).
func (a *Atmosphere) SetDewPoint(dewPointR float64) {
	a.humidityMode = HumidityDewPoint
	a.dewPointR = dewPointR
}

// SetRelativeHumidity sets humidity as a fraction in [0, 1].
func (a *Atmosphere) SetRelativeHumidity(rh float64) {
	a.humidityMode = HumidityRelative
	a.relativeHumidity = rh
}

// SetVaporMassFractionPPM sets humidity directly as parts-per-million by
// mass.
func (a *Atmosphere) SetVaporMassFractionPPM(ppm float64) {
	a.humidityMode = HumidityVaporFractionPPM
	a.vaporMassFractionPPM = ppm
}

// SetVaporPressure sets humidity via partial vapor pressure (Pa).
func (a *Atmosphere) SetVaporPressure(pa float64) {
	a.humidityMode = HumidityVaporPressure
	a.vaporPressurePa = pa
}

func rankineToCelsius(tR float64) float64 {
	return (tR - 491.67) * 5 / 9
}

// magnusSaturationPressurePa is the Magnus-formula saturated vapor
// pressure with constants (a, b, c) = (611.2 Pa, 17.62, 243.12 C).
func magnusSaturationPressurePa(tC float64) float64 {
	return magnusA * math.Exp(magnusB*tC/(magnusC+tC))
}

// vaporMassFractionAt returns the current humidity parameterization's
// vapor mass fraction (unitless) at geometric altitude hFt, clamped to the
// altitude-dependent literature maximum.
func (a *Atmosphere) vaporMassFractionAt(hFt float64) float64 {
	if a.planet == PlanetMars || a.humidityMode == HumidityNone {
		// Mars humidity handling is undefined upstream; assumed zero.
		return 0
	}

	var wPPM float64
	ambientPa := a.ambientPressureStdPa(hFt)
	switch a.humidityMode {
	case HumidityVaporFractionPPM:
		wPPM = a.vaporMassFractionPPM
	case HumidityVaporPressure:
		wPPM = 1e6 * 0.622 * a.vaporPressurePa / math.Max(ambientPa-a.vaporPressurePa, 1e-6)
	case HumidityDewPoint:
		es := magnusSaturationPressurePa(rankineToCelsius(a.dewPointR))
		wPPM = 1e6 * 0.622 * es / math.Max(ambientPa-es, 1e-6)
	case HumidityRelative:
		tC := rankineToCelsius(a.temperatureStd(hFt))
		es := magnusSaturationPressurePa(tC)
		e := a.relativeHumidity * es
		wPPM = 1e6 * 0.622 * e / math.Max(ambientPa-e, 1e-6)
	}

	if max := maxVaporPPMTable.Lookup(hFt); wPPM > max {
		wPPM = max
	}
	if wPPM < 0 {
		wPPM = 0
	}
	return wPPM / 1e6
}

func (a *Atmosphere) ambientPressureStdPa(hFt float64) float64 {
	H := a.geopotentialAltitude(hFt)
	b := a.cur.layerIndex(H)
	Tb, Lb, Hb, Pb := a.cur.T[b], a.cur.L[b], a.cur.H[b], a.cur.P[b]
	dH := H - Hb
	var psf float64
	if Lb != 0 {
		psf = Pb * math.Pow(Tb/(Tb+Lb*dH), g0Earth/(gasConstantAirFtLbSlugR*Lb))
	} else {
		psf = Pb * math.Exp(-g0Earth*dH/(gasConstantAirFtLbSlugR*Tb))
	}
	return psf * psfToPa
}
