package main

// actuator is a first-order-lag, rate-limited, clamped control channel.
// Commands are normalized; positions settle toward the command at the
// channel's lag time constant, never faster than the rate limit.
type actuator struct {
	cmd, pos  float64
	lag       float64 // time constant, seconds; 0 means instantaneous
	rateLimit float64 // per second; 0 means unlimited
	min, max  float64
}

func newActuator(min, max float64) *actuator {
	return &actuator{min: min, max: max}
}

func (a *actuator) setCmd(v float64) {
	a.cmd = clamp(v, a.min, a.max)
}

// step advances the position by dt toward the command.
func (a *actuator) step(dt float64) {
	target := a.cmd
	if a.lag > 0 && dt > 0 {
		alpha := dt / (a.lag + dt)
		target = a.pos + alpha*(a.cmd-a.pos)
	}
	delta := target - a.pos
	if a.rateLimit > 0 {
		maxDelta := a.rateLimit * dt
		delta = clamp(delta, -maxDelta, maxDelta)
	}
	a.pos = clamp(a.pos+delta, a.min, a.max)
}

// settle snaps the position to the commanded value. The trim engine probes
// controls quasi-statically, so actuator dynamics are bypassed there.
func (a *actuator) settle() {
	a.pos = clamp(a.cmd, a.min, a.max)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FlightControls owns the control-surface and trim channels plus one
// throttle channel per engine.
type FlightControls struct {
	elevator, aileron, rudder       *actuator
	pitchTrim, rollTrim, yawTrim    *actuator
	throttles                       []*actuator
}

// NewFlightControls builds the channel set for engineCount engines.
// Channel dynamics default to instantaneous; ApplyChannelConfig overlays
// the vehicle document's lag/rate-limit values.
func NewFlightControls(engineCount int) *FlightControls {
	fc := &FlightControls{
		elevator:  newActuator(-1, 1),
		aileron:   newActuator(-1, 1),
		rudder:    newActuator(-1, 1),
		pitchTrim: newActuator(-1, 1),
		rollTrim:  newActuator(-1, 1),
		yawTrim:   newActuator(-1, 1),
	}
	for i := 0; i < engineCount; i++ {
		fc.throttles = append(fc.throttles, newActuator(0, 1))
	}
	return fc
}

// ApplyChannelConfig overlays actuator dynamics from a flight_control
// section. Unrecognized channel names are skipped.
func (fc *FlightControls) ApplyChannelConfig(cfg *ConfigFlightControl) {
	if cfg == nil {
		return
	}
	for _, ch := range cfg.Channels {
		var a *actuator
		switch ch.Name {
		case "elevator":
			a = fc.elevator
		case "aileron":
			a = fc.aileron
		case "rudder":
			a = fc.rudder
		case "pitch-trim":
			a = fc.pitchTrim
		case "roll-trim":
			a = fc.rollTrim
		case "yaw-trim":
			a = fc.yawTrim
		default:
			continue
		}
		a.lag = ch.Lag
		a.rateLimit = ch.RateLimit
		if ch.Max > ch.Min {
			a.min, a.max = ch.Min, ch.Max
		}
	}
}

// Step advances every channel by dt.
func (fc *FlightControls) Step(dt float64) {
	for _, a := range fc.all() {
		a.step(dt)
	}
}

// Settle snaps every channel to its command.
func (fc *FlightControls) Settle() {
	for _, a := range fc.all() {
		a.settle()
	}
}

func (fc *FlightControls) all() []*actuator {
	out := []*actuator{fc.elevator, fc.aileron, fc.rudder, fc.pitchTrim, fc.rollTrim, fc.yawTrim}
	return append(out, fc.throttles...)
}

func (fc *FlightControls) SetThrottleCmd(engine int, cmd float64) {
	if engine >= 0 && engine < len(fc.throttles) {
		fc.throttles[engine].setCmd(cmd)
	}
}

// ThrottlePos returns the commanded throttle setting for one engine.
func (fc *FlightControls) ThrottlePos(engine int) float64 {
	if engine < 0 || engine >= len(fc.throttles) {
		return 0
	}
	return fc.throttles[engine].cmd
}

func (fc *FlightControls) SetElevatorCmd(cmd float64)  { fc.elevator.setCmd(cmd) }
func (fc *FlightControls) ElevatorCmd() float64        { return fc.elevator.cmd }
func (fc *FlightControls) SetAileronCmd(cmd float64)   { fc.aileron.setCmd(cmd) }
func (fc *FlightControls) AileronCmd() float64         { return fc.aileron.cmd }
func (fc *FlightControls) SetRudderCmd(cmd float64)    { fc.rudder.setCmd(cmd) }
func (fc *FlightControls) RudderCmd() float64          { return fc.rudder.cmd }
func (fc *FlightControls) SetPitchTrimCmd(cmd float64) { fc.pitchTrim.setCmd(cmd) }
func (fc *FlightControls) PitchTrimCmd() float64       { return fc.pitchTrim.cmd }
func (fc *FlightControls) SetRollTrimCmd(cmd float64)  { fc.rollTrim.setCmd(cmd) }
func (fc *FlightControls) RollTrimCmd() float64        { return fc.rollTrim.cmd }
func (fc *FlightControls) SetYawTrimCmd(cmd float64)   { fc.yawTrim.setCmd(cmd) }
func (fc *FlightControls) YawTrimCmd() float64         { return fc.yawTrim.cmd }

// SurfacePositions returns the effective deflections the aerodynamic
// buildup consumes: surface position plus its trim channel.
func (fc *FlightControls) SurfacePositions() (elevator, aileron, rudder float64) {
	elevator = clamp(fc.elevator.pos+fc.pitchTrim.pos, -1, 1)
	aileron = clamp(fc.aileron.pos+fc.rollTrim.pos, -1, 1)
	rudder = clamp(fc.rudder.pos+fc.yawTrim.pos, -1, 1)
	return
}

// SurfaceCommands is SurfacePositions on the commanded values, ignoring
// actuator dynamics. Quasi-static probes read this.
func (fc *FlightControls) SurfaceCommands() (elevator, aileron, rudder float64) {
	elevator = clamp(fc.elevator.cmd+fc.pitchTrim.cmd, -1, 1)
	aileron = clamp(fc.aileron.cmd+fc.rollTrim.cmd, -1, 1)
	rudder = clamp(fc.rudder.cmd+fc.yawTrim.cmd, -1, 1)
	return
}

var _ FlightControlSystem = (*FlightControls)(nil)
