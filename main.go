package main

import (
	"fmt"
	"strings"
)

// demoAircraftXML is a self-contained light-trainer vehicle document for
// the demo entrypoint: geometry, mass properties, a tricycle gear layout
// authored nose-first, one engine, and actuator dynamics for the primary
// surfaces.
const demoAircraftXML = `<?xml version="1.0"?>
<fdm_config name="demo-light-trainer" version="2.0">
  <metrics>
    <wingarea unit="FT2">174.0</wingarea>
    <wingspan unit="FT">33.4</wingspan>
    <chord unit="FT">5.5</chord>
  </metrics>
  <mass_balance>
    <ixx unit="SLUG*FT2">1285.0</ixx>
    <iyy unit="SLUG*FT2">1825.0</iyy>
    <izz unit="SLUG*FT2">2667.0</izz>
    <ixz unit="SLUG*FT2">0.0</ixz>
    <emptywt unit="LBS">1500.0</emptywt>
  </mass_balance>
  <ground_reactions>
    <contact type="BOGEY" name="NOSE">
      <location unit="IN"><x>72.0</x><y>0.0</y><z>60.0</z></location>
      <spring_coeff unit="LBS/FT">1800.0</spring_coeff>
      <damping_coeff unit="LBS/FT/SEC">600.0</damping_coeff>
    </contact>
    <contact type="BOGEY" name="LEFT_MAIN">
      <location unit="IN"><x>-24.0</x><y>-60.0</y><z>60.0</z></location>
      <spring_coeff unit="LBS/FT">5400.0</spring_coeff>
      <damping_coeff unit="LBS/FT/SEC">1600.0</damping_coeff>
    </contact>
    <contact type="BOGEY" name="RIGHT_MAIN">
      <location unit="IN"><x>-24.0</x><y>60.0</y><z>60.0</z></location>
      <spring_coeff unit="LBS/FT">5400.0</spring_coeff>
      <damping_coeff unit="LBS/FT/SEC">1600.0</damping_coeff>
    </contact>
  </ground_reactions>
  <propulsion>
    <engine name="io-360">
      <maxthrust unit="LBS">480.0</maxthrust>
      <throttle_min>0.0</throttle_min>
      <throttle_max>1.0</throttle_max>
      <spool_time>0.8</spool_time>
    </engine>
  </propulsion>
  <flight_control name="demo-fcs">
    <channel name="elevator"><lag>0.05</lag><rate_limit>2.0</rate_limit><min>-1</min><max>1</max></channel>
    <channel name="aileron"><lag>0.05</lag><rate_limit>2.5</rate_limit><min>-1</min><max>1</max></channel>
    <channel name="rudder"><lag>0.05</lag><rate_limit>2.0</rate_limit><min>-1</min><max>1</max></channel>
  </flight_control>
</fdm_config>
`

// demoInitXML is the matching initialization document: 5000 ft, 220 fps,
// level flight path, all engines running.
const demoInitXML = `<?xml version="1.0"?>
<initialize version="1.0">
  <altitudeMSL unit="FT">5000.0</altitudeMSL>
  <vt>220.0</vt>
  <gamma unit="DEG">0.0</gamma>
  <running>-1</running>
  <trim>longitudinal</trim>
</initialize>
`

func main() {
	logger := NewLogrusLogger(nil, "flight-core")

	config, err := LoadAircraftConfig(strings.NewReader(demoAircraftXML))
	if err != nil {
		panic(err)
	}
	fmt.Printf("airframe: %s\n", config.Name)

	atmosphere := NewAtmosphere(PlanetEarth, logger)

	ic, err := NewInitialCondition(atmosphere, logger)
	if err != nil {
		panic(err)
	}

	vehicle, err := NewVehicle(config, atmosphere, ic, logger)
	if err != nil {
		panic(err)
	}
	fmt.Printf("wing area: %.1f sq ft, mass: %.1f slug\n", vehicle.Aero.WingArea, vehicle.MassSlug())

	winds := NewWinds(logger, 42, vehicle.Aero.WingSpan)
	winds.SetTurbulenceType(TurbMilspec)
	winds.SetSeverity(4)

	if err := ic.Load([]byte(demoInitXML), true); err != nil {
		panic(err)
	}
	vehicle.Propulsion.ApplyRunningMask(-1)

	exec, err := NewExecutive(atmosphere, winds, ic,
		vehicle, vehicle.Aero, vehicle.Propulsion, vehicle.Gear, vehicle.Gravity, vehicle.Controls)
	if err != nil {
		panic(err)
	}

	h := ic.AltitudeASL()
	fmt.Printf("T = %.2f R, P = %.2f psf, rho = %.6f slug/ft3, a = %.2f fps\n",
		atmosphere.Temperature(h), atmosphere.Pressure(h),
		atmosphere.Density(h), atmosphere.SoundSpeed(h))

	trim, err := NewTrimEngine(exec, logger)
	if err != nil {
		panic(err)
	}
	mode, _ := TrimModeFromICDocument("longitudinal")
	if err := trim.Configure(mode); err != nil {
		panic(err)
	}
	if result, err := trim.Run(); err != nil {
		fmt.Printf("trim did not converge: %v\n", err)
	} else {
		for _, r := range result.Reports {
			fmt.Printf("trim axis state=%d control=%d: %.6g (target %.6g) in %d iterations\n",
				r.Axis.State, r.Axis.Control, r.FinalState, r.StateTarget, r.Iterations)
		}
	}

	exec.TriggerGust(Vector3{Z: -1}, FrameLocal, 15, 1, 2, 1)
	for i := 0; i < 100; i++ {
		wind := winds.Update(0.05, vehicle.AltitudeAGLFt(), ic.Vt(), Vector3{}, vehicle.currentOrientation())
		vehicle.SetWindNED(wind)
		if err := vehicle.Step(0.05); err != nil {
			panic(err)
		}
	}
	fmt.Printf("after 5 s: altitude %.1f ft, vt %.1f fps\n",
		vehicle.AltitudeMSLFt(), vehicle.uvw.Magnitude())

	if v, err := exec.Bridge.Get("ic/vt-fps"); err == nil {
		fmt.Printf("property bridge ic/vt-fps = %.2f\n", v)
	}

	snap := ic.TakeSnapshot()
	euler := snap.Orientation.ToEulerTriple()
	fmt.Printf("snapshot: body=%+v phi/theta/psi=%.4f/%.4f/%.4f\n",
		snap.Body, euler.Phi, euler.Theta, euler.Psi)
}
