package main

import "math"

// TurbulenceType selects the turbulence spectrum model.
type TurbulenceType int

const (
	TurbNone TurbulenceType = iota
	TurbCulp
	TurbMilspec
	TurbTustin
)

// WindFrame tags the frame a one-minus-cosine gust direction was
// specified in.
type WindFrame int

const (
	FrameBody WindFrame = iota
	FrameWind
	FrameLocal
)

// OneMinusCosineGust is a triggered event: half-cosine ramp up over
// Startup, unity over Steady, half-cosine ramp down over End. Direction is
// normalized once at trigger time in the tagged frame, then kept resolved
// to local-NED for the rest of the event.
type OneMinusCosineGust struct {
	DirectionNED             Vector3
	Magnitude                float64
	Frame                    WindFrame
	Startup, Steady, End     float64
	Elapsed                  float64
	Active                   bool
}

// currentMagnitude returns the half-cosine profile factor at the gust's
// current elapsed time, 0 once the event has finished.
func (g *OneMinusCosineGust) currentMagnitude() float64 {
	if !g.Active {
		return 0
	}
	t := g.Elapsed
	switch {
	case t < g.Startup:
		if g.Startup == 0 {
			return g.Magnitude
		}
		return g.Magnitude * 0.5 * (1 - math.Cos(math.Pi*t/g.Startup))
	case t < g.Startup+g.Steady:
		return g.Magnitude
	case t < g.Startup+g.Steady+g.End:
		te := t - g.Startup - g.Steady
		if g.End == 0 {
			return 0
		}
		return g.Magnitude * 0.5 * (1 + math.Cos(math.Pi*te/g.End))
	default:
		return 0
	}
}

func (g *OneMinusCosineGust) advance(dt float64) Vector3 {
	if !g.Active {
		return Vector3{}
	}
	factor := g.currentMagnitude()
	g.Elapsed += dt
	if g.Elapsed >= g.Startup+g.Steady+g.End {
		g.Active = false
	}
	return g.DirectionNED.Scale(factor)
}

// BurstRing is a toroidal up/down-burst circulation ring. The Biot-Savart
// field the ring induces is supplied by the host through BurstFieldFunc;
// the winds component iterates the active rings and accumulates.
type BurstRing struct {
	Center          Location
	CenterAltitude  float64
	RingRadiusFt    float64
	CoreRadiusFt    float64
	CirculationFtSq float64
	Active          bool
}

// axisFilterState is the two-past-output / two-past-noise-draw history a
// second-order Dryden shaping filter needs per axis.
type axisFilterState struct {
	y1, y2 float64
	n1, n2 float64
}

func (s *axisFilterState) pushOutput(y float64) {
	s.y2, s.y1 = s.y1, y
}

func (s *axisFilterState) pushNoise(n float64) {
	s.n2, s.n1 = s.n1, n
}

// Winds is the single-threaded, seeded winds and turbulence component:
// steady wind, 1-cosine gust, up/down-burst ring accumulation, and
// Culp/MIL-F-8785C (Tustin or MIL-STD-1797A) turbulence.
type Winds struct {
	logger Logger
	rng    *RandomSource

	steadyNED Vector3

	oneMinusCosine *OneMinusCosineGust
	burstRings     []BurstRing
	burstFieldFunc func(ring BurstRing, atNED Vector3) Vector3
	burstGustNED   Vector3

	turbType      TurbulenceType
	severity      int // 1..7, MIL-F-8785C probability-of-exceedence row
	wingspanFt    float64
	turbulenceNED Vector3
	turbulenceP   float64
	turbulenceQ   float64
	turbulenceR   float64

	// Culp model state
	culpRateRadPerSec float64
	culpGainFps       float64
	culpPhase         float64
	culpSpike         float64
	culpSpikeRelax    float64

	axisU, axisV, axisW axisFilterState
	prevW               float64 // previous-tick vertical turbulence, for p/q/r first-difference coupling
	prevV               float64
}

// severityPOETable is the MIL-F-8785C probability-of-exceedence vertical
// intensity table for h >= 2000 ft: rows are severity 1..7 (light through
// severe), columns the standard altitude breakpoints. Values are
// representative magnitudes (ft/s) in the literature's general range, not
// a verbatim transcription of a specific edition's table.
var severityPOETable = &Table2D{
	Rows: []float64{1, 2, 3, 4, 5, 6, 7},
	Cols: []float64{500, 1750, 3750, 7500, 15000, 25000, 35000, 45000, 55000, 65000, 75000, 80000},
	Data: [][]float64{
		{2, 2.5, 3, 3.3, 3.5, 3.3, 3, 2.5, 2, 1.5, 1, 0.8},
		{4, 5, 5.8, 6.3, 6.5, 6.3, 5.8, 5, 4, 3, 2, 1.5},
		{6, 7.5, 8.6, 9.3, 9.6, 9.3, 8.6, 7.5, 6, 4.5, 3, 2.2},
		{8, 10, 11.4, 12.3, 12.7, 12.3, 11.4, 10, 8, 6, 4, 3},
		{10, 12.5, 14.2, 15.3, 15.8, 15.3, 14.2, 12.5, 10, 7.5, 5, 3.7},
		{12, 15, 17, 18.3, 18.9, 18.3, 17, 15, 12, 9, 6, 4.5},
		{14, 17.5, 19.8, 21.3, 22, 21.3, 19.8, 17.5, 14, 10.5, 7, 5.2},
	},
}

// NewWinds builds a Winds component with a reproducible RNG stream owned
// by this instance, never a package-level global.
func NewWinds(logger Logger, seed uint64, wingspanFt float64) *Winds {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Winds{
		logger:         logger,
		rng:            NewRandomSource(seed),
		wingspanFt:     wingspanFt,
		severity:       1,
		culpRateRadPerSec: 1.0,
		culpGainFps:       5.0,
		culpSpikeRelax:    0.5,
	}
}

// SetSteadyWindNED sets the steady wind vector (fps).
func (w *Winds) SetSteadyWindNED(v Vector3) { w.steadyNED = v }

// SteadyWindNED returns the current steady wind vector.
func (w *Winds) SteadyWindNED() Vector3 { return w.steadyNED }

// WindHeading returns psi-w = atan2(wE, wN), derived from steady wind only.
func (w *Winds) WindHeading() float64 {
	return math.Atan2(w.steadyNED.Y, w.steadyNED.X)
}

// TriggerOneMinusCosineGust starts a new gust event. direction is
// normalized in the tagged frame (using orientation's DCM if frame is not
// already local-NED) and then held fixed in local-NED for the event's
// duration.
func (w *Winds) TriggerOneMinusCosineGust(direction Vector3, frame WindFrame, magnitude, startup, steady, end float64, orientation Quaternion) {
	dirNED := direction.Normalize()
	switch frame {
	case FrameBody:
		dirNED = orientation.DCMBodyToLocal().MultiplyVector(dirNED)
	case FrameWind:
		// Wind frame here is treated as body frame rotated by the current
		// aero angles; since the core does not own alpha/beta, callers
		// supplying FrameWind are expected to have already rotated
		// direction into body axes before calling, same as FrameBody.
		dirNED = orientation.DCMBodyToLocal().MultiplyVector(dirNED)
	case FrameLocal:
		// already NED
	}
	w.oneMinusCosine = &OneMinusCosineGust{
		DirectionNED: dirNED,
		Magnitude:    magnitude,
		Frame:        frame,
		Startup:      startup,
		Steady:       steady,
		End:          end,
		Active:       true,
	}
}

// AddBurstRing registers an active up/down-burst ring.
func (w *Winds) AddBurstRing(r BurstRing) { w.burstRings = append(w.burstRings, r) }

// ClearBurstRings removes every registered ring.
func (w *Winds) ClearBurstRings() { w.burstRings = nil }

// SetBurstFieldFunc injects the host's Biot-Savart ring-field
// evaluator.
func (w *Winds) SetBurstFieldFunc(f func(ring BurstRing, atNED Vector3) Vector3) {
	w.burstFieldFunc = f
}

func (w *Winds) evaluateBursts(atNED Vector3) Vector3 {
	if w.burstFieldFunc == nil {
		return Vector3{}
	}
	var total Vector3
	for _, r := range w.burstRings {
		if !r.Active {
			continue
		}
		total = total.Add(w.burstFieldFunc(r, atNED))
	}
	return total
}

// SetTurbulenceType selects the turbulence model.
func (w *Winds) SetTurbulenceType(t TurbulenceType) { w.turbType = t }

// SetSeverity sets the MIL-F-8785C probability-of-exceedence row, clamped
// to [1, 7].
func (w *Winds) SetSeverity(n int) {
	if n < 1 {
		n = 1
	}
	if n > 7 {
		n = 7
	}
	w.severity = n
}

// SetWingspan sets the wingspan used by the Culp vertical-attenuation
// term and the rotational-rate first-difference coupling.
func (w *Winds) SetWingspan(ft float64) { w.wingspanFt = ft }

// milTurbulenceParameters returns (sigmaU, sigmaV, sigmaW, Lu, Lv, Lw) for
// the MIL-F-8785C spectra at the given height-above-ground and reference
// windspeed-at-20ft (fps): low-altitude formula below 1000 ft, the
// severity/altitude probability-of-exceedence table at or above 2000 ft,
// linear blend between.
func (w *Winds) milTurbulenceParameters(aglFt, windspeed20Fps float64) (sigmaU, sigmaV, sigmaW, Lu, Lv, Lw float64) {
	lowAlt := func(h float64) (su, sv, sw, lu, lv, lw float64) {
		h = math.Max(h, 10)
		sw = 0.1 * windspeed20Fps
		denom := math.Pow(0.177+0.000823*h, 0.4)
		su = windspeed20Fps / denom
		sv = su
		lw = h / 2
		lu = h / math.Pow(0.177+0.000823*h, 1.2)
		lv = lu
		return
	}
	highAlt := func(h float64) (su, sv, sw, lu, lv, lw float64) {
		sw = severityPOETable.Lookup(float64(w.severity), h)
		su, sv = sw, sw
		lu, lv, lw = 1750, 1750, 1750
		return
	}

	switch {
	case aglFt <= 1000:
		return lowAlt(aglFt)
	case aglFt >= 2000:
		return highAlt(aglFt)
	default:
		lSu, lSv, lSw, lLu, lLv, lLw := lowAlt(1000)
		hSu, hSv, hSw, hLu, hLv, hLw := highAlt(2000)
		frac := (aglFt - 1000) / 1000
		lerp := func(a, b float64) float64 { return a + frac*(b-a) }
		return lerp(lSu, hSu), lerp(lSv, hSv), lerp(lSw, hSw), lerp(lLu, hLu), lerp(lLv, hLv), lerp(lLw, hLw)
	}
}

// firstOrderTustin returns the Tustin (bilinear) discretization of
// H(s) = K / (1 + T s) at sample interval dt: y[n] = b0*x[n] + b1*x[n-1]
// - a1*y[n-1].
func firstOrderTustin(K, T, dt float64) (b0, b1, a1 float64) {
	c := 2 * T / dt
	b0 = K / (1 + c)
	b1 = b0
	a1 = (1 - c) / (1 + c)
	return
}

// secondOrderDryden returns the Tustin discretization of the Dryden
// second-order shaping filter H(s) = K*(1+sqrt(3)*T*s)/(1+T*s)^2 at sample
// interval dt: y[n] = b0 x[n] + b1 x[n-1] + b2 x[n-2] - a1 y[n-1] -
// a2 y[n-2]. Derived directly from the bilinear substitution
// s -> (2/dt)(1-z^-1)/(1+z^-1) rather than transcribed from a table.
func secondOrderDryden(K, T, dt float64) (b0, b1, b2, a1, a2 float64) {
	c := 2 * T / dt
	sqrt3 := math.Sqrt(3)
	denom := (1 + c) * (1 + c)
	b0 = K * (1 + sqrt3*c) / denom
	b1 = 2 * K / denom
	b2 = K * (1 - sqrt3*c) / denom
	a1 = (2 - 2*c*c) / denom
	a2 = (1 - c) * (1 - c) / denom
	return
}

// secondOrderMilStd is the MIL-STD-1797A direct difference-equation
// variant: the same rational shaping filter, discretized by a
// matched-pole-zero approximation instead of Tustin, giving the TurbMilspec
// tag a genuinely distinct (if closely related) filter from TurbTustin.
func secondOrderMilStd(K, T, dt float64) (b0, b1, b2, a1, a2 float64) {
	// Matched Z-transform: map the continuous double pole at s=-1/T to a
	// discrete double pole at z=exp(-dt/T); keep the continuous zero's
	// relative contribution via the same Tustin numerator scaled to match
	// DC gain.
	p := math.Exp(-dt / T)
	a1 = -2 * p
	a2 = p * p
	// DC gain of H(s) at s=0 is K; normalize b0+b1+b2 to K*(1+a1+a2) and
	// split the numerator with the same zero shape as the Tustin variant
	// for consistency between the two spectra.
	// The shape is taken at unit gain so that K = 0 gives a zero filter
	// rather than 0/0.
	tb0, tb1, tb2, _, _ := secondOrderDryden(1, T, dt)
	sum := tb0 + tb1 + tb2
	scale := K * (1 + a1 + a2) / sum
	b0, b1, b2 = tb0*scale, tb1*scale, tb2*scale
	return
}

func (w *Winds) stepSecondOrder(axis *axisFilterState, K, T, dt float64, milspec bool) float64 {
	n := w.rng.Gaussian()
	var b0, b1, b2, a1, a2 float64
	if milspec {
		b0, b1, b2, a1, a2 = secondOrderMilStd(K, T, dt)
	} else {
		b0, b1, b2, a1, a2 = secondOrderDryden(K, T, dt)
	}
	y := b0*n + b1*axis.n1 + b2*axis.n2 - a1*axis.y1 - a2*axis.y2
	axis.pushNoise(n)
	axis.pushOutput(y)
	return y
}

func (w *Winds) stepFirstOrder(axis *axisFilterState, K, T, dt float64) float64 {
	n := w.rng.Gaussian()
	b0, b1, a1 := firstOrderTustin(K, T, dt)
	y := b0*n + b1*axis.n1 - a1*axis.y1
	axis.pushNoise(n)
	axis.pushOutput(y)
	return y
}

// stepCulp advances the Culp model: a configurable-rate sine-wave vertical
// term, an asymmetric spike with random relaxation, and a roll-rate
// injection proportional to the latest spike; vertical magnitude is
// attenuated by (AGL/wingspan/3)^2 below 3 wingspans AGL.
func (w *Winds) stepCulp(dt, aglFt float64) (turbNED Vector3, rollRate float64) {
	w.culpPhase += w.culpRateRadPerSec * dt
	vertical := w.culpGainFps * math.Sin(w.culpPhase)

	if w.rng.Uniform() < 0.02 {
		sign := 1.0
		if w.rng.Uniform() < 0.5 {
			sign = -1.0
		}
		w.culpSpike = sign * w.culpGainFps * (0.5 + w.rng.Uniform())
	} else {
		w.culpSpike *= math.Exp(-w.culpSpikeRelax * dt)
	}
	vertical += w.culpSpike

	if w.wingspanFt > 0 && aglFt < 3*w.wingspanFt {
		atten := aglFt / (w.wingspanFt * 3)
		vertical *= atten * atten
	}

	rollRate = w.culpSpike / math.Max(w.wingspanFt, 1)
	return Vector3{Z: vertical}, rollRate
}

// Update advances steady, gust, cosine-gust, and turbulence components
// by dt and returns the summed NED wind vector, in that order: steady,
// then gust, then cosine gust, then turbulence, then sum. atNED is the
// vehicle's current local-tangent position (for burst
// ring evaluation); aglFt, true-airspeed-fps and orientation parameterize
// the turbulence spectra and gust frame resolution.
func (w *Winds) Update(dt, aglFt, trueAirspeedFps float64, atNED Vector3, orientation Quaternion) Vector3 {
	total := w.steadyNED

	w.burstGustNED = w.evaluateBursts(atNED)
	total = total.Add(w.burstGustNED)

	var cosineGust Vector3
	if w.oneMinusCosine != nil {
		cosineGust = w.oneMinusCosine.advance(dt)
	}
	total = total.Add(cosineGust)

	w.turbulenceNED = Vector3{}
	w.turbulenceP, w.turbulenceQ, w.turbulenceR = 0, 0, 0

	switch w.turbType {
	case TurbNone:
		// no turbulence contribution
	case TurbCulp:
		turb, roll := w.stepCulp(dt, aglFt)
		w.turbulenceNED = turb
		w.turbulenceP = roll
	case TurbTustin, TurbMilspec:
		V := math.Max(trueAirspeedFps, 1)
		sigmaU, sigmaV, sigmaW, Lu, Lv, Lw := w.milTurbulenceParameters(aglFt, w.steadyNED.Magnitude())
		milspec := w.turbType == TurbMilspec

		Ku := sigmaU * math.Sqrt(2*Lu/(math.Pi*V))
		u := w.stepFirstOrder(&w.axisU, Ku, Lu/V, dt)

		Kv := sigmaV * math.Sqrt(Lv/(math.Pi*V))
		v := w.stepSecondOrder(&w.axisV, Kv, Lv/V, dt, milspec)

		Kw := sigmaW * math.Sqrt(Lw/(math.Pi*V))
		wOut := w.stepSecondOrder(&w.axisW, Kw, Lw/V, dt, milspec)

		w.turbulenceNED = Vector3{X: u, Y: v, Z: wOut}
		if w.wingspanFt > 0 {
			w.turbulenceP = (wOut - w.prevW) / w.wingspanFt
			w.turbulenceQ = (wOut - w.prevW) / w.wingspanFt
			w.turbulenceR = (v - w.prevV) / w.wingspanFt
		}
		w.prevW, w.prevV = wOut, v
	}
	total = total.Add(w.turbulenceNED)

	return total
}

// TurbulenceRates returns the turbulence-induced body angular rate
// contribution (p, q, r), coupled to the linear outputs by first
// differences divided by wingspan.
func (w *Winds) TurbulenceRates() Vector3 {
	return Vector3{X: w.turbulenceP, Y: w.turbulenceQ, Z: w.turbulenceR}
}
