package main

import (
	"fmt"
	"math"
)

// ThrustEngine is one engine: commanded throttle maps to a static thrust
// target, and delivered thrust spools toward it with a first-order lag.
// Thrust falls off with density ratio, a flat-rated simplification that
// holds well below the tropopause.
type ThrustEngine struct {
	Name         string
	MaxThrustLbs float64
	ThrottleMin  float64
	ThrottleMax  float64
	SpoolTime    float64

	Running   bool
	thrustLbs float64
}

// targetThrust is the steady-state thrust for a throttle setting and
// density ratio.
func (e *ThrustEngine) targetThrust(throttle, densityRatio float64) float64 {
	if !e.Running {
		return 0
	}
	throttle = clamp(throttle, e.ThrottleMin, e.ThrottleMax)
	return e.MaxThrustLbs * throttle * densityRatio
}

// Update spools delivered thrust toward the steady-state target by dt.
func (e *ThrustEngine) Update(throttle, densityRatio, dt float64) {
	target := e.targetThrust(throttle, densityRatio)
	if e.SpoolTime <= 0 || dt <= 0 {
		e.thrustLbs = target
		return
	}
	alpha := dt / (e.SpoolTime + dt)
	e.thrustLbs += alpha * (target - e.thrustLbs)
}

// ThrustLbs returns the currently delivered thrust.
func (e *ThrustEngine) ThrustLbs() float64 { return e.thrustLbs }

// PropulsionSuite owns every engine and exposes the read-only handles the
// trim engine probes: engine count, throttle limits, and the steady-state
// solve.
type PropulsionSuite struct {
	engines []*ThrustEngine
	fcs     *FlightControls
	logger  Logger

	densityRatio float64
}

// NewPropulsionSuite builds engines from the vehicle document's propulsion
// section. A document without one gets a single default engine so the
// trim engine always has a throttle to work with.
func NewPropulsionSuite(cfg *ConfigPropulsion, fcs *FlightControls, logger Logger) (*PropulsionSuite, error) {
	if fcs == nil {
		return nil, fmt.Errorf("propulsion suite: %w", ErrMissingCollaborator)
	}
	if logger == nil {
		logger = NoopLogger{}
	}
	ps := &PropulsionSuite{fcs: fcs, logger: logger, densityRatio: 1}
	if cfg == nil || len(cfg.Engines) == 0 {
		ps.engines = []*ThrustEngine{{
			Name:         "engine",
			MaxThrustLbs: 500,
			ThrottleMax:  1,
			Running:      true,
		}}
		return ps, nil
	}
	for _, ec := range cfg.Engines {
		maxThrust, err := ec.MaxThrust.In(UnitPound)
		if err != nil {
			return nil, fmt.Errorf("propulsion suite: engine %q maxthrust: %w", ec.Name, err)
		}
		tmax := ec.ThrottleMax
		if tmax <= 0 {
			tmax = 1
		}
		ps.engines = append(ps.engines, &ThrustEngine{
			Name:         ec.Name,
			MaxThrustLbs: maxThrust,
			ThrottleMin:  ec.ThrottleMin,
			ThrottleMax:  tmax,
			SpoolTime:    ec.SpoolTime,
			Running:      true,
		})
	}
	return ps, nil
}

// SetDensityRatio sets rho/rho0 for the thrust falloff term.
func (ps *PropulsionSuite) SetDensityRatio(ratio float64) {
	ps.densityRatio = math.Max(ratio, 0)
}

// SetRunning starts or stops engines. engine -1 selects all engines,
// otherwise the value is a bit index into the engine list.
func (ps *PropulsionSuite) SetRunning(engine int, on bool) {
	if engine < 0 {
		for _, e := range ps.engines {
			e.Running = on
		}
		return
	}
	if engine < len(ps.engines) {
		ps.engines[engine].Running = on
	}
}

// ApplyRunningMask applies the initialization document's `running` value:
// -1 means all engines, otherwise each set bit starts that engine.
func (ps *PropulsionSuite) ApplyRunningMask(mask int) {
	if mask == -1 {
		ps.SetRunning(-1, true)
		return
	}
	for i := range ps.engines {
		ps.engines[i].Running = mask&(1<<uint(i)) != 0
	}
}

// Update advances every engine by dt at the current throttle commands.
func (ps *PropulsionSuite) Update(dt float64) {
	for i, e := range ps.engines {
		e.Update(ps.fcs.ThrottlePos(i), ps.densityRatio, dt)
	}
}

// TotalThrustLbs sums delivered thrust along the body x axis.
func (ps *PropulsionSuite) TotalThrustLbs() float64 {
	total := 0.0
	for _, e := range ps.engines {
		total += e.thrustLbs
	}
	return total
}

// SteadyThrustLbs is the thrust total with every engine settled at its
// steady-state target; quasi-static trim probes read this.
func (ps *PropulsionSuite) SteadyThrustLbs() float64 {
	total := 0.0
	for i, e := range ps.engines {
		total += e.targetThrust(ps.fcs.ThrottlePos(i), ps.densityRatio)
	}
	return total
}

func (ps *PropulsionSuite) EngineCount() int { return len(ps.engines) }

func (ps *PropulsionSuite) ThrottleLimits(engine int) (min, max float64) {
	if engine < 0 || engine >= len(ps.engines) {
		return 0, 1
	}
	e := ps.engines[engine]
	return e.ThrottleMin, e.ThrottleMax
}

// RunSteadyState snaps every engine to its steady-state thrust.
func (ps *PropulsionSuite) RunSteadyState() error {
	for i, e := range ps.engines {
		e.thrustLbs = e.targetThrust(ps.fcs.ThrottlePos(i), ps.densityRatio)
	}
	return nil
}

var _ Propulsion = (*PropulsionSuite)(nil)
