package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TrimMode selects a declarative list of TrimAxis constructor tuples.
type TrimMode int

const (
	TrimNone TrimMode = iota
	TrimLongitudinal
	TrimFull
	TrimGround
	TrimPullup
	TrimTurn
	TrimCustom
)

// StateTag is the trimmed quantity on one side of a TrimAxis pair.
type StateTag int

const (
	StateUdot StateTag = iota
	StateVdot
	StateWdot
	StatePdot
	StateQdot
	StateRdot
	StateHmgt // heading minus ground track
	StateNlf  // load factor
)

// ControlTag is the manipulated quantity on the other side of a TrimAxis
// pair.
type ControlTag int

const (
	ControlThrottle ControlTag = iota
	ControlAlpha
	ControlBeta
	ControlElevator
	ControlAileron
	ControlRudder
	ControlPitchTrim
	ControlRollTrim
	ControlYawTrim
	ControlAGL
	ControlTheta
	ControlPhi
	ControlGamma
	ControlHeading
)

// TrimAxis is one (state, control) pair.
type TrimAxis struct {
	State   StateTag
	Control ControlTag

	StateTarget float64
	ControlMin  float64
	ControlMax  float64
	Tolerance   float64
	Epsilon     float64

	Iterations int
	Succeeded  bool

	LastState   float64
	LastControl float64
}

// AxisReport is the per-axis diagnostic a trim run leaves behind.
type AxisReport struct {
	Axis          TrimAxis
	Iterations    int
	Succeeded     bool
	FinalState    float64
	FinalControl  float64
	StateTarget   float64
	Tolerance     float64
}

// Result is the tagged union the façade exposes for a trim run.
type Result struct {
	Succeeded bool
	Reports   []AxisReport
}

func defaultTolerance(state StateTag) float64 {
	switch state {
	case StateUdot, StateVdot, StateWdot:
		return 1e-3
	case StatePdot, StateQdot, StateRdot:
		return 1e-4
	case StateHmgt:
		return 1e-2
	case StateNlf:
		return 1e-5
	default:
		return 1e-3
	}
}

// TrimEngine drives selected accelerations to zero by adjusting selected
// controls, axis by axis, reusing the shared bracket-then-regula-falsi
// solver from solver.go.
type TrimEngine struct {
	exec   *Executive
	logger Logger

	mode TrimMode
	axes []*TrimAxis

	maxCycles       int
	maxSubCycles    int
	targetLoadFactor float64
	fallbackEnabled  bool

	lastTheta float64
}

// NewTrimEngine builds a trim engine bound to an Executive.
func NewTrimEngine(exec *Executive, logger Logger) (*TrimEngine, error) {
	if exec == nil {
		return nil, fmt.Errorf("trim engine: %w", ErrMissingCollaborator)
	}
	if logger == nil {
		logger = NoopLogger{}
	}
	return &TrimEngine{
		exec:             exec,
		logger:           logger,
		maxCycles:        60,
		maxSubCycles:     100,
		targetLoadFactor: 1.0,
		fallbackEnabled:  true,
	}, nil
}

// SetTolerance overrides one axis's tolerance; 0 means "use the default
// for that state tag."
func (t *TrimEngine) SetTolerance(state StateTag, tol float64) {
	for _, a := range t.axes {
		if a.State == state {
			if tol == 0 {
				tol = defaultTolerance(state)
			}
			a.Tolerance = tol
		}
	}
}

// SetMaxCycles, SetMaxSubCycles override the top-level and per-axis
// iteration caps.
func (t *TrimEngine) SetMaxCycles(n int)    { t.maxCycles = n }
func (t *TrimEngine) SetMaxSubCycles(n int) { t.maxSubCycles = n }

// SetTargetLoadFactor sets the nlf target the pullup mode uses.
func (t *TrimEngine) SetTargetLoadFactor(nlf float64) { t.targetLoadFactor = nlf }

// SetFallbackEnabled toggles the (udot, throttle)->(udot, gamma) fallback.
func (t *TrimEngine) SetFallbackEnabled(on bool) { t.fallbackEnabled = on }

func axis(state StateTag, control ControlTag, target, cmin, cmax float64) *TrimAxis {
	return &TrimAxis{
		State:       state,
		Control:     control,
		StateTarget: target,
		ControlMin:  cmin,
		ControlMax:  cmax,
		Tolerance:   defaultTolerance(state),
		Epsilon:     1e-6,
	}
}

// Configure selects a mode and builds its declarative axis list.
func (t *TrimEngine) Configure(mode TrimMode) error {
	t.mode = mode
	switch mode {
	case TrimLongitudinal:
		t.axes = []*TrimAxis{
			axis(StateWdot, ControlAlpha, 0, radians(-20), radians(20)),
			axis(StateUdot, ControlThrottle, 0, 0, 1),
			axis(StateQdot, ControlPitchTrim, 0, -1, 1),
		}
	case TrimFull:
		t.axes = []*TrimAxis{
			axis(StateWdot, ControlAlpha, 0, radians(-20), radians(20)),
			axis(StateUdot, ControlThrottle, 0, 0, 1),
			axis(StateQdot, ControlPitchTrim, 0, -1, 1),
			axis(StateHmgt, ControlBeta, 0, radians(-30), radians(30)),
			axis(StateVdot, ControlPhi, 0, radians(-60), radians(60)),
			axis(StatePdot, ControlAileron, 0, -1, 1),
			axis(StateRdot, ControlRudder, 0, -1, 1),
		}
	case TrimGround:
		t.axes = []*TrimAxis{
			axis(StateWdot, ControlAGL, 0, 0, 1000),
			axis(StateQdot, ControlTheta, 0, radians(-20), radians(20)),
		}
	case TrimPullup:
		t.axes = []*TrimAxis{
			axis(StateNlf, ControlAlpha, t.targetLoadFactor, radians(-20), radians(20)),
			axis(StateUdot, ControlThrottle, 0, 0, 1),
			axis(StateQdot, ControlPitchTrim, 0, -1, 1),
			axis(StateHmgt, ControlBeta, 0, radians(-30), radians(30)),
			axis(StateVdot, ControlPhi, 0, radians(-60), radians(60)),
			axis(StatePdot, ControlAileron, 0, -1, 1),
			axis(StateRdot, ControlRudder, 0, -1, 1),
		}
	case TrimTurn:
		t.axes = []*TrimAxis{
			axis(StateWdot, ControlAlpha, 0, radians(-20), radians(20)),
			axis(StateUdot, ControlThrottle, 0, 0, 1),
			axis(StateQdot, ControlPitchTrim, 0, -1, 1),
			axis(StateVdot, ControlBeta, 0, radians(-30), radians(30)),
			axis(StatePdot, ControlAileron, 0, -1, 1),
			axis(StateRdot, ControlRudder, 0, -1, 1),
		}
	case TrimCustom, TrimNone:
		// user-provided; leave whatever AddAxis has built so far
	}
	return nil
}

// AddAxis appends a user-declared axis (custom/none modes).
func (t *TrimEngine) AddAxis(a *TrimAxis) { t.axes = append(t.axes, a) }

// RemoveAxis drops every axis trimming the given state.
func (t *TrimEngine) RemoveAxis(state StateTag) {
	kept := t.axes[:0]
	for _, a := range t.axes {
		if a.State != state {
			kept = append(kept, a)
		}
	}
	t.axes = kept
}

// ReplaceAxisControl swaps the control side of the axis trimming state.
func (t *TrimEngine) ReplaceAxisControl(state StateTag, newControl ControlTag, cmin, cmax float64) {
	for _, a := range t.axes {
		if a.State == state {
			a.Control = newControl
			a.ControlMin = cmin
			a.ControlMax = cmax
		}
	}
}

// stateValue reads the current value of a state tag from the executive's
// collaborators.
func (t *TrimEngine) stateValue(a *TrimAxis) float64 {
	accel := t.exec.Propagate.BodyAccelerations()
	rates := t.exec.Propagate.AngularAccelerations()
	switch a.State {
	case StateUdot:
		return accel.X
	case StateVdot:
		return accel.Y
	case StateWdot:
		return accel.Z
	case StatePdot:
		return rates.X
	case StateQdot:
		return rates.Y
	case StateRdot:
		return rates.Z
	case StateHmgt:
		return t.headingMinusGroundTrack()
	case StateNlf:
		return t.loadFactor()
	}
	return 0
}

func (t *TrimEngine) headingMinusGroundTrack() float64 {
	ned := t.exec.IC.NEDVelocity()
	groundTrack := math.Atan2(ned.Y, ned.X)
	_, _, _, _, sinPsi, cosPsi := t.exec.Propagate.SinCosEuler()
	heading := math.Atan2(sinPsi, cosPsi)
	return WrapTwoPi(heading - groundTrack)
}

func (t *TrimEngine) loadFactor() float64 {
	accel := t.exec.Propagate.BodyAccelerations()
	g := t.exec.Inertial.GravityAt(t.exec.IC.location)
	if g == 0 {
		return 0
	}
	return -accel.Z / g
}

// targetRates recomputes a mode-specific target state before each axis
// probe: turn mode's coordinated-turn rates, pullup mode's pitch rate
// from load factor.
func (t *TrimEngine) targetRates() {
	if t.mode == TrimTurn {
		phi := t.exec.IC.Phi()
		theta := t.exec.IC.Theta()
		vt := math.Max(t.exec.IC.Vt(), 1)
		g := t.exec.Inertial.GravityAt(t.exec.IC.location)
		psiDot := g * math.Tan(phi) / vt
		for _, a := range t.axes {
			switch a.State {
			case StatePdot:
				a.StateTarget = -psiDot * math.Sin(theta)
			case StateQdot:
				a.StateTarget = psiDot * math.Cos(theta) * math.Sin(phi)
			case StateRdot:
				a.StateTarget = psiDot * math.Cos(theta) * math.Cos(phi)
			}
		}
	}
	if t.mode == TrimPullup {
		gamma := t.exec.IC.Gamma()
		vt := math.Max(t.exec.IC.Vt(), 1)
		g := t.exec.Inertial.GravityAt(t.exec.IC.location)
		for _, a := range t.axes {
			if a.State == StateQdot {
				a.StateTarget = g * (t.targetLoadFactor - math.Cos(gamma)) / vt
			}
		}
	}
}

// applyControl writes a control value into the FCS/IC/Propagate
// collaborators.
func (t *TrimEngine) applyControl(a *TrimAxis, value float64) {
	switch a.Control {
	case ControlThrottle:
		for e := 0; e < t.exec.Propulsion.EngineCount(); e++ {
			t.exec.FCS.SetThrottleCmd(e, value)
		}
	case ControlAlpha:
		t.exec.IC.SetAlpha(value)
	case ControlBeta:
		t.exec.IC.SetBeta(value)
	case ControlElevator:
		t.exec.FCS.SetElevatorCmd(value)
	case ControlAileron:
		t.exec.FCS.SetAileronCmd(value)
	case ControlRudder:
		t.exec.FCS.SetRudderCmd(value)
	case ControlPitchTrim:
		t.exec.FCS.SetPitchTrimCmd(value)
	case ControlRollTrim:
		t.exec.FCS.SetRollTrimCmd(value)
	case ControlYawTrim:
		t.exec.FCS.SetYawTrimCmd(value)
	case ControlAGL:
		t.exec.IC.SetAltitudeAGL(value)
	case ControlTheta:
		t.exec.IC.SetTheta(value)
	case ControlPhi:
		t.exec.IC.SetPhi(value)
	case ControlGamma:
		t.exec.IC.SetGamma(value)
	case ControlHeading:
		t.exec.IC.SetPsi(value)
	}
	a.LastControl = value
}

// runAxis solves one (state, control) pair within its control bounds:
// probe for a sign change, widen geometrically if none, then hand the
// bracket to the shared inner loop.
func (t *TrimEngine) runAxis(a *TrimAxis) {
	residual := func(control float64) float64 {
		t.applyControl(a, control)
		return t.stateValue(a) - a.StateTarget
	}
	cfg := SolveConfig{
		Min:           a.ControlMin,
		Max:           a.ControlMax,
		MaxExpansions: 100,
		Relaxation:    0.9,
		FTol:          a.Tolerance,
		XTol:          a.Epsilon,
		MaxIterations: t.maxSubCycles,
	}
	guess := a.LastControl
	root, err := Solve(residual, guess, cfg)
	a.Iterations++
	if err != nil {
		a.Succeeded = false
		return
	}
	t.applyControl(a, root)
	a.LastState = t.stateValue(a)
	a.LastControl = root
	a.Succeeded = math.Abs(a.LastState-a.StateTarget) <= a.Tolerance
}

// runFallback retries the sole saturated (udot, throttle) axis by
// switching its control to gamma.
func (t *TrimEngine) runFallback(a *TrimAxis) {
	if a.State != StateUdot || a.Control != ControlThrottle {
		return
	}
	saturated := a.LastControl <= a.ControlMin+a.Epsilon || a.LastControl >= a.ControlMax-a.Epsilon
	if !saturated {
		return
	}
	t.logger.Warnf("trim: (udot, throttle) saturated at %.4f, falling back to gamma", a.LastControl)
	gammaAxis := axis(StateUdot, ControlGamma, a.StateTarget, radians(-30), radians(30))
	t.runAxis(gammaAxis)
	a.Control = ControlGamma
	a.Iterations += gammaAxis.Iterations
	a.Succeeded = gammaAxis.Succeeded
	a.LastControl = gammaAxis.LastControl
	a.LastState = gammaAxis.LastState
}

// initTheta is the ground-mode bootstrap: adjust theta in one-degree
// steps, capped at 100, until forward and rearward gear units report
// equal local z-position.
func (t *TrimEngine) initTheta() error {
	step := radians(1)
	theta := t.exec.IC.Theta()
	gearCount := t.exec.GroundReactions.GearCount()
	if gearCount < 2 {
		return nil
	}
	for i := 0; i < 100; i++ {
		t.exec.IC.SetTheta(theta)
		forward := t.exec.GroundReactions.GearLocationLocal(0).Z
		rear := t.exec.GroundReactions.GearLocationLocal(gearCount - 1).Z
		diff := forward - rear
		if math.Abs(diff) < 0.1 {
			t.lastTheta = theta
			return nil
		}
		if diff > 0 {
			theta += step
		} else {
			theta -= step
		}
	}
	t.lastTheta = theta
	return fmt.Errorf("init theta: did not converge in 100 steps: %w", ErrNoSolution)
}

// Run executes the top-level trim loop until every axis is within
// tolerance or the cycle cap is reached.
func (t *TrimEngine) Run() (Result, error) {
	t.exec.Hooks.fireTrimBegin(t.mode)

	if err := t.exec.Propulsion.RunSteadyState(); err != nil {
		t.logger.Warnf("trim: propulsion steady state: %v", err)
	}

	if t.mode == TrimGround {
		if err := t.initTheta(); err != nil {
			t.logger.Errorf("trim: %v", err)
		}
	}

	residuals := mat.NewDense(len(t.axes), 1, nil)

	converged := false
	for cycle := 0; cycle < t.maxCycles; cycle++ {
		t.targetRates()
		allGood := true
		for i, a := range t.axes {
			t.runAxis(a)
			if !a.Succeeded && t.fallbackEnabled {
				t.runFallback(a)
			}
			residuals.Set(i, 0, a.LastState-a.StateTarget)
			if !a.Succeeded {
				allGood = false
			}
		}
		// Later axes move the states earlier axes already solved, so every
		// axis is re-queried once the whole cycle is done.
		for i, a := range t.axes {
			a.LastState = t.stateValue(a)
			a.Succeeded = math.Abs(a.LastState-a.StateTarget) <= a.Tolerance
			residuals.Set(i, 0, a.LastState-a.StateTarget)
			if !a.Succeeded {
				allGood = false
			}
		}
		t.logger.Debugf("trim: cycle %d residual norm %.6g", cycle, mat.Norm(residuals, 2))
		if allGood {
			converged = true
			break
		}
	}

	result := Result{Succeeded: converged}
	for _, a := range t.axes {
		result.Reports = append(result.Reports, AxisReport{
			Axis:         *a,
			Iterations:   a.Iterations,
			Succeeded:    a.Succeeded,
			FinalState:   a.LastState,
			FinalControl: a.LastControl,
			StateTarget:  a.StateTarget,
			Tolerance:    a.Tolerance,
		})
	}

	t.publishReports(result)
	t.exec.Hooks.fireTrimEnd(result)

	if !converged {
		return result, logError(t.logger, fmt.Errorf("trim: %d axes out of tolerance after %d cycles: %w",
			countUnsucceeded(t.axes), t.maxCycles, ErrTrimFailed))
	}
	return result, nil
}

// publishReports binds the per-axis diagnostics onto the property bridge,
// replacing any bindings left by a previous run.
func (t *TrimEngine) publishReports(result Result) {
	b := t.exec.Bridge
	if b == nil {
		return
	}
	succeeded := result.Succeeded
	b.Bind("trim/succeeded", func() float64 {
		if succeeded {
			return 1
		}
		return 0
	}, nil)
	b.Bind("trim/axis-count", func() float64 { return float64(len(result.Reports)) }, nil)
	for i := range result.Reports {
		r := result.Reports[i]
		base := fmt.Sprintf("trim/axis[%d]/", i)
		b.Bind(base+"iterations", func() float64 { return float64(r.Iterations) }, nil)
		b.Bind(base+"final-state", func() float64 { return r.FinalState }, nil)
		b.Bind(base+"final-control", func() float64 { return r.FinalControl }, nil)
		b.Bind(base+"state-target", func() float64 { return r.StateTarget }, nil)
		b.Bind(base+"tolerance", func() float64 { return r.Tolerance }, nil)
	}
}

func countUnsucceeded(axes []*TrimAxis) int {
	n := 0
	for _, a := range axes {
		if !a.Succeeded {
			n++
		}
	}
	return n
}
