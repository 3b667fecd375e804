package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// AircraftConfig is the vehicle-model document: metrics, mass balance,
// ground reactions, propulsion and flight-control channels. The core
// consumes only the derived numeric fields the collaborator constructors
// pull out of it.
type AircraftConfig struct {
	XMLName xml.Name `xml:"fdm_config"`
	Name    string   `xml:"name,attr"`
	Version string   `xml:"version,attr"`

	Metrics         *ConfigMetrics         `xml:"metrics"`
	MassBalance     *ConfigMassBalance     `xml:"mass_balance"`
	GroundReactions *ConfigGroundReactions `xml:"ground_reactions"`
	Propulsion      *ConfigPropulsion      `xml:"propulsion"`
	FlightControl   *ConfigFlightControl   `xml:"flight_control"`
	Autopilot       *ConfigFlightControl   `xml:"autopilot"`
}

// ConfigValue is a chardata value with an optional unit attribute.
type ConfigValue struct {
	Unit  string  `xml:"unit,attr"`
	Value float64 `xml:",chardata"`
}

// In returns the value expressed in the wanted unit. A missing unit
// attribute means the value is already in the wanted unit.
func (v *ConfigValue) In(unit string) (float64, error) {
	if v == nil {
		return 0, nil
	}
	from := canonicalUnit(v.Unit)
	if from == "" {
		from = unit
	}
	return convert(v.Value, from, unit)
}

// canonicalUnit maps the unit-attribute spellings used in vehicle
// documents (SLUG*FT2, LBS/FT, ...) onto the conversion-map names.
func canonicalUnit(u string) string {
	switch strings.ToUpper(strings.TrimSpace(u)) {
	case "SLUG*FT2", "SLUG_FT2":
		return UnitSlugFoot2
	case "KG*M2", "KG_M2":
		return UnitKilogramMeter2
	case "LBS/FT", "LBS_FT":
		return UnitPoundPerFoot
	case "LBS/FT/SEC", "LBS_FT_SEC":
		return UnitPoundPerFootSec
	default:
		return strings.ToUpper(strings.TrimSpace(u))
	}
}

type ConfigMetrics struct {
	WingArea *ConfigValue `xml:"wingarea"`
	WingSpan *ConfigValue `xml:"wingspan"`
	Chord    *ConfigValue `xml:"chord"`
}

type ConfigMassBalance struct {
	Ixx         *ConfigValue `xml:"ixx"`
	Iyy         *ConfigValue `xml:"iyy"`
	Izz         *ConfigValue `xml:"izz"`
	Ixz         *ConfigValue `xml:"ixz"`
	EmptyWeight *ConfigValue `xml:"emptywt"`
}

type ConfigGroundReactions struct {
	Contacts []ConfigContact `xml:"contact"`
}

// ConfigContact is one gear unit: a body-frame location plus the
// spring/damper pair its vertical reaction force is built from.
type ConfigContact struct {
	Type     string          `xml:"type,attr"`
	Name     string          `xml:"name,attr"`
	Location *ConfigLocation `xml:"location"`
	Spring   *ConfigValue    `xml:"spring_coeff"`
	Damping  *ConfigValue    `xml:"damping_coeff"`
}

type ConfigLocation struct {
	Unit string  `xml:"unit,attr"`
	X    float64 `xml:"x"`
	Y    float64 `xml:"y"`
	Z    float64 `xml:"z"`
}

// BodyFt returns the contact location in feet, body axes.
func (l *ConfigLocation) BodyFt() (Vector3, error) {
	if l == nil {
		return Vector3{}, nil
	}
	unit := canonicalUnit(l.Unit)
	if unit == "" {
		unit = UnitFoot
	}
	x, err := convert(l.X, unit, UnitFoot)
	if err != nil {
		return Vector3{}, err
	}
	y, err := convert(l.Y, unit, UnitFoot)
	if err != nil {
		return Vector3{}, err
	}
	z, err := convert(l.Z, unit, UnitFoot)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y, Z: z}, nil
}

type ConfigPropulsion struct {
	Engines []ConfigEngine `xml:"engine"`
}

type ConfigEngine struct {
	Name        string       `xml:"name,attr"`
	MaxThrust   *ConfigValue `xml:"maxthrust"`
	ThrottleMin float64      `xml:"throttle_min"`
	ThrottleMax float64      `xml:"throttle_max"`
	SpoolTime   float64      `xml:"spool_time"`
}

type ConfigFlightControl struct {
	Name     string          `xml:"name,attr"`
	Channels []ConfigChannel `xml:"channel"`
}

// ConfigChannel describes one control-surface actuator: first-order lag,
// rate limit, and position clamp.
type ConfigChannel struct {
	Name      string  `xml:"name,attr"`
	Lag       float64 `xml:"lag"`
	RateLimit float64 `xml:"rate_limit"`
	Min       float64 `xml:"min"`
	Max       float64 `xml:"max"`
}

// LoadAircraftConfig decodes a vehicle-model document from r. The reader
// is fully consumed before any field is interpreted, so a decode error
// never leaves a partially-applied configuration.
func LoadAircraftConfig(r io.Reader) (*AircraftConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load aircraft config: %w", err)
	}
	var cfg AircraftConfig
	if err := xml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("load aircraft config: %w: %v", ErrBadSchema, err)
	}
	if cfg.Metrics == nil || cfg.MassBalance == nil {
		return nil, fmt.Errorf("load aircraft config: metrics and mass_balance are required: %w", ErrBadSchema)
	}
	return &cfg, nil
}
