package main

import (
	"fmt"
	"sync"
)

// PropertyDescriptor binds one property-bridge node to a getter and an
// optional setter, so derived, read-only properties (e.g. atmosphere/T-R)
// are representable alongside writable ones.
type PropertyDescriptor struct {
	Path string
	Get  func() float64
	Set  func(float64) error // nil: read-only
}

// PropertyBridge is the process-wide name-to-accessor registry. A single
// RWMutex guards the node and alias maps; getters run under the shared
// read lock and setters run after the lock is released, so accessor calls
// themselves are not serialized against each other.
type PropertyBridge struct {
	mutex   sync.RWMutex
	nodes   map[string]*PropertyDescriptor
	aliases map[string]string
}

// NewPropertyBridge builds an empty bridge; components bind their nodes
// during construction.
func NewPropertyBridge() *PropertyBridge {
	return &PropertyBridge{
		nodes:   make(map[string]*PropertyDescriptor),
		aliases: make(map[string]string),
	}
}

// Bind registers a node. get must be non-nil; set may be nil for a
// read-only property.
func (b *PropertyBridge) Bind(path string, get func() float64, set func(float64) error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.nodes[path] = &PropertyDescriptor{Path: path, Get: get, Set: set}
}

// Unbind removes a node at component teardown.
func (b *PropertyBridge) Unbind(path string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	delete(b.nodes, path)
}

// SetAlias registers an alternate spelling for an existing path.
func (b *PropertyBridge) SetAlias(alias, target string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.aliases[alias] = target
}

func (b *PropertyBridge) resolve(path string) string {
	if target, ok := b.aliases[path]; ok {
		return target
	}
	return path
}

// Get reads a bound property by path.
func (b *PropertyBridge) Get(path string) (float64, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	node, ok := b.nodes[b.resolve(path)]
	if !ok {
		return 0, fmt.Errorf("property bridge get %q: %w", path, ErrBadSchema)
	}
	return node.Get(), nil
}

// Set writes a bound property by path; fails if the node is read-only.
func (b *PropertyBridge) Set(path string, value float64) error {
	b.mutex.RLock()
	node, ok := b.nodes[b.resolve(path)]
	b.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("property bridge set %q: %w", path, ErrBadSchema)
	}
	if node.Set == nil {
		return fmt.Errorf("property bridge set %q: read-only: %w", path, ErrBadSchema)
	}
	return node.Set(value)
}

// Paths returns every currently bound path, for diagnostics.
func (b *PropertyBridge) Paths() []string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	paths := make([]string, 0, len(b.nodes))
	for p := range b.nodes {
		paths = append(paths, p)
	}
	return paths
}

// BindStandardProperties registers the standard property-path vocabulary
// against an Executive's components. Atmosphere paths are bound under
// both spellings in circulation, aliased together for scripting
// compatibility.
func BindStandardProperties(exec *Executive) {
	b := exec.Bridge
	atm := exec.Atmosphere
	ic := exec.IC

	b.Bind("atmosphere/T-R", func() float64 { return atm.Temperature(ic.AltitudeASL()) }, nil)
	b.Bind("atmosphere/P-psf", func() float64 { return atm.Pressure(ic.AltitudeASL()) }, nil)
	b.Bind("atmosphere/rho-slugs_ft3", func() float64 { return atm.Density(ic.AltitudeASL()) }, nil)
	b.Bind("atmosphere/a-fps", func() float64 { return atm.SoundSpeed(ic.AltitudeASL()) }, nil)
	b.Bind("atmosphere/T-sl-deR", func() float64 { return atm.Temperature(0) }, nil)
	b.Bind("atmosphere/P-sl-psf", func() float64 { return atm.Pressure(0) }, nil)

	b.SetAlias("atmosphere/temperature-R", "atmosphere/T-R")
	b.SetAlias("atmosphere/pressure-psf", "atmosphere/P-psf")
	b.SetAlias("atmosphere/density-slugft3", "atmosphere/rho-slugs_ft3")

	b.Bind("ic/vt-fps", ic.Vt, func(v float64) error { ic.SetVt(v); return nil })
	b.Bind("ic/vc-kts", func() float64 { return ic.Vc() / 1.68781 }, func(v float64) error { return ic.SetVc(v * 1.68781) })
	b.Bind("ic/ve-kts", func() float64 { return ic.Ve() / 1.68781 }, func(v float64) error { ic.SetVe(v * 1.68781); return nil })
	b.Bind("ic/mach", ic.Mach, func(v float64) error { ic.SetMach(v); return nil })
	b.Bind("ic/alpha-rad", ic.Alpha, func(v float64) error { return ic.SetAlpha(v) })
	b.Bind("ic/beta-rad", ic.Beta, func(v float64) error { return ic.SetBeta(v) })
	b.Bind("ic/gamma-rad", ic.Gamma, func(v float64) error { return ic.SetGamma(v) })
	b.Bind("ic/theta-rad", ic.Theta, func(v float64) error { return ic.SetTheta(v) })
	b.Bind("ic/phi-rad", ic.Phi, func(v float64) error { ic.SetPhi(v); return nil })
	b.Bind("ic/psi-rad", ic.Psi, func(v float64) error { ic.SetPsi(v); return nil })
	b.Bind("ic/h-sl-ft", ic.AltitudeASL, func(v float64) error { return ic.SetAltitudeASL(v) })
	b.Bind("ic/h-agl-ft", ic.AltitudeAGL, func(v float64) error { return ic.SetAltitudeAGL(v) })

	b.Bind("position/h-sl-ft", ic.AltitudeASL, nil)
	b.Bind("attitude/phi-rad", ic.Phi, nil)
	b.Bind("attitude/theta-rad", ic.Theta, nil)
	b.Bind("attitude/psi-rad", ic.Psi, nil)
	b.Bind("velocities/vt-fps", ic.Vt, nil)
	b.Bind("velocities/mach", ic.Mach, nil)
	b.Bind("velocities/alpha-rad", ic.Alpha, nil)
	b.Bind("velocities/beta-rad", ic.Beta, nil)

	propulsion := exec.Propulsion
	b.Bind("propulsion/num-engines", func() float64 { return float64(propulsion.EngineCount()) }, nil)

	fcs := exec.FCS
	b.Bind("fcs/elevator-cmd-norm", fcs.ElevatorCmd, func(v float64) error { fcs.SetElevatorCmd(v); return nil })
	b.Bind("fcs/aileron-cmd-norm", fcs.AileronCmd, func(v float64) error { fcs.SetAileronCmd(v); return nil })
	b.Bind("fcs/rudder-cmd-norm", fcs.RudderCmd, func(v float64) error { fcs.SetRudderCmd(v); return nil })
	b.Bind("fcs/pitch-trim-cmd-norm", fcs.PitchTrimCmd, func(v float64) error { fcs.SetPitchTrimCmd(v); return nil })
	b.Bind("fcs/roll-trim-cmd-norm", fcs.RollTrimCmd, func(v float64) error { fcs.SetRollTrimCmd(v); return nil })
	b.Bind("fcs/yaw-trim-cmd-norm", fcs.YawTrimCmd, func(v float64) error { fcs.SetYawTrimCmd(v); return nil })
}
