package main

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// icMeasurement is a value tagged with a unit attribute, the same shape
// the vehicle document's ConfigValue uses.
type icMeasurement struct {
	Unit  string  `xml:"unit,attr"`
	Value float64 `xml:",chardata"`
}

// icDocument is the initialization XML document: position, orientation,
// velocity, aero angles, wind, trim mode, running engines, and a target
// load factor, every numeric element carrying an optional unit attribute.
type icDocument struct {
	XMLName xml.Name `xml:"initialize"`
	Version string   `xml:"version,attr"`

	Latitude    *icLatitude    `xml:"latitude"`
	Longitude   *icMeasurement `xml:"longitude"`
	Altitude    *icMeasurement `xml:"altitude"`
	AltitudeAGL *icMeasurement `xml:"altitudeAGL"`
	AltitudeMSL *icMeasurement `xml:"altitudeMSL"`
	Elevation   *icMeasurement `xml:"elevation"`

	Phi   *icMeasurement `xml:"phi"`
	Theta *icMeasurement `xml:"theta"`
	Psi   *icMeasurement `xml:"psi"`

	UBody  *icMeasurement `xml:"ubody"`
	VBody  *icMeasurement `xml:"vbody"`
	WBody  *icMeasurement `xml:"wbody"`
	VNorth *icMeasurement `xml:"vnorth"`
	VEast  *icMeasurement `xml:"veast"`
	VDown  *icMeasurement `xml:"vdown"`
	VC     *icMeasurement `xml:"vc"`
	VT     *icMeasurement `xml:"vt"`
	Mach   *icMeasurement `xml:"mach"`
	VGround *icMeasurement `xml:"vground"`
	ROC    *icMeasurement `xml:"roc"`
	Gamma  *icMeasurement `xml:"gamma"`

	Alpha *icMeasurement `xml:"alpha"`
	Beta  *icMeasurement `xml:"beta"`

	// WindDir/VWind preserve Open Question 2 verbatim: winddir is
	// direction (degrees), vwind is magnitude.
	WindDir *icMeasurement `xml:"winddir"`
	VWind   *icMeasurement `xml:"vwind"`
	HWind   *icMeasurement `xml:"hwind"`
	XWind   *icMeasurement `xml:"xwind"`

	Trim       string `xml:"trim"`
	Running    string `xml:"running"`
	TargetNlf  *float64 `xml:"targetNlf"`
}

type icLatitude struct {
	Type  string  `xml:"type,attr"`
	Unit  string  `xml:"unit,attr"`
	Value float64 `xml:",chardata"`
}

// parseICDocument decodes the raw XML bytes and rejects any document whose
// version attribute is >= 3.0.
func parseICDocument(data []byte) (*icDocument, error) {
	var doc icDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ic document: %w: %v", ErrBadSchema, err)
	}
	if v := strings.TrimSpace(doc.Version); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f >= 3.0 {
			return nil, fmt.Errorf("ic document version %q: %w", v, ErrUnsupportedVersion)
		}
	}
	return &doc, nil
}

func icConvert(m *icMeasurement, defaultUnit string) (float64, error) {
	unit := m.Unit
	if unit == "" {
		unit = defaultUnit
	}
	return convert(m.Value, unit, defaultUnit)
}

// icVelocity returns a velocity element's value in fps. The conversion
// map carries no velocity dimension, so velocity elements are taken at
// face value in the native fps unit rather than routed through convert.
func icVelocity(m *icMeasurement) float64 { return m.Value }

// Load parses an initialization XML document and applies its setters to
// ic in an order that preserves the invariants: elevation and position
// first, then wind, then attitude, then aero angles, then exactly one
// speed parameterization, then climb rate.
func (ic *InitialCondition) Load(data []byte, mustRun bool) error {
	doc, err := parseICDocument(data)
	if err != nil {
		return logError(ic.logger, err)
	}

	if doc.Elevation != nil {
		v, err := icConvert(doc.Elevation, UnitFoot)
		if err != nil {
			return fmt.Errorf("ic load: elevation: %w", err)
		}
		ic.SetElevation(v)
	}
	if doc.Latitude != nil {
		unit := doc.Latitude.Unit
		if unit == "" {
			unit = UnitDegree
		}
		rad, err := convert(doc.Latitude.Value, unit, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: latitude: %w", err)
		}
		geodetic := strings.EqualFold(doc.Latitude.Type, "geod")
		if err := ic.SetLatitude(rad, geodetic); err != nil {
			return fmt.Errorf("ic load: latitude: %w", err)
		}
	}
	if doc.Longitude != nil {
		rad, err := icConvert(doc.Longitude, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: longitude: %w", err)
		}
		ic.SetLongitude(rad)
	}

	switch {
	case doc.Altitude != nil:
		v, err := icConvert(doc.Altitude, UnitFoot)
		if err != nil {
			return fmt.Errorf("ic load: altitude: %w", err)
		}
		if err := ic.SetAltitudeASL(v); err != nil {
			return fmt.Errorf("ic load: altitude: %w", err)
		}
	case doc.AltitudeMSL != nil:
		v, err := icConvert(doc.AltitudeMSL, UnitFoot)
		if err != nil {
			return fmt.Errorf("ic load: altitudeMSL: %w", err)
		}
		if err := ic.SetAltitudeASL(v); err != nil {
			return fmt.Errorf("ic load: altitudeMSL: %w", err)
		}
	case doc.AltitudeAGL != nil:
		v, err := icConvert(doc.AltitudeAGL, UnitFoot)
		if err != nil {
			return fmt.Errorf("ic load: altitudeAGL: %w", err)
		}
		if err := ic.SetAltitudeAGL(v); err != nil {
			return fmt.Errorf("ic load: altitudeAGL: %w", err)
		}
	}

	switch {
	case doc.WindDir != nil || doc.VWind != nil:
		dirDeg := 0.0
		if doc.WindDir != nil {
			dirDeg = doc.WindDir.Value
		}
		magFps := 0.0
		if doc.VWind != nil {
			magFps = icVelocity(doc.VWind)
		}
		dirRad := dirDeg * math.Pi / 180
		ic.SetWindNED(Vector3{
			X: magFps * math.Cos(dirRad),
			Y: magFps * math.Sin(dirRad),
		})
	case doc.HWind != nil || doc.XWind != nil:
		head, cross := 0.0, 0.0
		if doc.HWind != nil {
			head = icVelocity(doc.HWind)
		}
		if doc.XWind != nil {
			cross = icVelocity(doc.XWind)
		}
		ic.SetHeadCrossWind(head, cross)
	}

	if doc.Phi != nil {
		v, err := icConvert(doc.Phi, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: phi: %w", err)
		}
		ic.SetPhi(v)
	}
	if doc.Psi != nil {
		v, err := icConvert(doc.Psi, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: psi: %w", err)
		}
		ic.SetPsi(v)
	}
	if doc.Theta != nil {
		v, err := icConvert(doc.Theta, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: theta: %w", err)
		}
		if err := ic.SetTheta(v); err != nil {
			return fmt.Errorf("ic load: theta: %w", err)
		}
	}

	if doc.Alpha != nil {
		v, err := icConvert(doc.Alpha, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: alpha: %w", err)
		}
		if err := ic.SetAlpha(v); err != nil {
			return fmt.Errorf("ic load: alpha: %w", err)
		}
	}
	if doc.Gamma != nil {
		v, err := icConvert(doc.Gamma, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: gamma: %w", err)
		}
		if err := ic.SetGamma(v); err != nil {
			return fmt.Errorf("ic load: gamma: %w", err)
		}
	}
	if doc.Beta != nil {
		v, err := icConvert(doc.Beta, UnitRadian)
		if err != nil {
			return fmt.Errorf("ic load: beta: %w", err)
		}
		if err := ic.SetBeta(v); err != nil {
			return fmt.Errorf("ic load: beta: %w", err)
		}
	}

	switch {
	case doc.VT != nil:
		ic.SetVt(icVelocity(doc.VT))
	case doc.Mach != nil:
		ic.SetMach(doc.Mach.Value)
	case doc.VC != nil:
		if err := ic.SetVc(icVelocity(doc.VC)); err != nil {
			return fmt.Errorf("ic load: vc: %w", err)
		}
	case doc.UBody != nil || doc.VBody != nil || doc.WBody != nil:
		u, v, w := 0.0, 0.0, 0.0
		if doc.UBody != nil {
			u = icVelocity(doc.UBody)
		}
		if doc.VBody != nil {
			v = icVelocity(doc.VBody)
		}
		if doc.WBody != nil {
			w = icVelocity(doc.WBody)
		}
		ic.SetBodyVelocity(u, v, w)
	case doc.VNorth != nil || doc.VEast != nil || doc.VDown != nil:
		n, e, d := 0.0, 0.0, 0.0
		if doc.VNorth != nil {
			n = icVelocity(doc.VNorth)
		}
		if doc.VEast != nil {
			e = icVelocity(doc.VEast)
		}
		if doc.VDown != nil {
			d = icVelocity(doc.VDown)
		}
		ic.SetNEDVelocity(n, e, d)
	case doc.VGround != nil:
		ic.SetVground(icVelocity(doc.VGround))
	}

	if doc.ROC != nil {
		if err := ic.SetClimbRate(icVelocity(doc.ROC)); err != nil {
			return fmt.Errorf("ic load: roc: %w", err)
		}
	}

	if mustRun && doc.Trim == "" {
		return fmt.Errorf("ic load: mustRun set but no trim element present: %w", ErrBadSchema)
	}
	return nil
}

// TrimModeFromICDocument maps the `trim` element's value onto TrimMode.
func TrimModeFromICDocument(trim string) (TrimMode, bool) {
	switch strings.ToLower(strings.TrimSpace(trim)) {
	case "0":
		return TrimNone, true
	case "1", "full":
		return TrimFull, true
	case "longitudinal":
		return TrimLongitudinal, true
	case "ground":
		return TrimGround, true
	case "pullup":
		return TrimPullup, true
	case "turn":
		return TrimTurn, true
	case "custom":
		return TrimCustom, true
	default:
		return TrimNone, false
	}
}

