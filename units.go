package main

import "fmt"

// Unit names recognized by convert.
const (
	UnitMeter         = "M"
	UnitMeter2        = "M2"
	UnitFoot          = "FT"
	UnitFoot2         = "FT2"
	UnitInch          = "IN"
	UnitPound         = "LBS"
	UnitKilogram      = "KG"
	UnitSlugFoot2     = "SLUG_FT2" // SLUG*FT^2, moment of inertia
	UnitKilogramMeter2 = "KG_M2"   // KG*M^2, moment of inertia
	UnitRadian        = "RAD"
	UnitDegree        = "DEG"
	UnitPoundPerFoot  = "LBS_FT"     // LBS/FT, spring-rate units
	UnitPoundPerFootSec = "LBS_FT_SEC" // LBS/FT/SEC, damping-rate units
)

// unitEdge is a direct, one-hop conversion factor: 1 <from> == factor <to>.
type unitEdge struct {
	from, to string
	factor   float64
}

// unitGraph is the conversion map expressed as a direct-edge list; the
// set is small enough (every listed unit connects to its group's base in
// one hop) that no shortest-path search is needed.
var unitGraph = buildUnitGraph([]unitEdge{
	{UnitMeter, UnitFoot, 3.280839895},
	{UnitInch, UnitFoot, 1.0 / 12.0},
	{UnitMeter2, UnitFoot2, 3.280839895 * 3.280839895},
	{UnitKilogram, UnitPound, 2.204622622},
	{UnitKilogramMeter2, UnitSlugFoot2, 2.204622622 / 32.174049 * 3.280839895 * 3.280839895},
	{UnitDegree, UnitRadian, 0.017453292519943295},
})

func buildUnitGraph(edges []unitEdge) map[string]map[string]float64 {
	g := make(map[string]map[string]float64)
	addNode := func(u string) {
		if _, ok := g[u]; !ok {
			g[u] = make(map[string]float64)
		}
	}
	// Every recognized unit is its own identity edge, even units with no
	// partner in the map (LBS, RAD, LBS_FT, LBS_FT_SEC, ...) so that
	// convert(v, U, U) always succeeds for a known U.
	for _, u := range []string{
		UnitMeter, UnitMeter2, UnitFoot, UnitFoot2, UnitInch, UnitPound,
		UnitKilogram, UnitSlugFoot2, UnitKilogramMeter2, UnitRadian,
		UnitDegree, UnitPoundPerFoot, UnitPoundPerFootSec,
	} {
		addNode(u)
		g[u][u] = 1
	}
	for _, e := range edges {
		addNode(e.from)
		addNode(e.to)
		g[e.from][e.to] = e.factor
		g[e.to][e.from] = 1 / e.factor
	}
	return g
}

// convert returns value expressed in the to unit, given it is currently
// expressed in the from unit. It fails with ErrUnknownUnit if either unit
// is absent from the map, or if no edge connects them (they belong to
// different physical dimensions).
func convert(value float64, from, to string) (float64, error) {
	fromEdges, ok := unitGraph[from]
	if !ok {
		return 0, fmt.Errorf("convert %s -> %s: %w", from, to, ErrUnknownUnit)
	}
	if _, ok := unitGraph[to]; !ok {
		return 0, fmt.Errorf("convert %s -> %s: %w", from, to, ErrUnknownUnit)
	}
	factor, ok := fromEdges[to]
	if !ok {
		return 0, fmt.Errorf("convert %s -> %s: %w", from, to, ErrUnknownUnit)
	}
	return value * factor, nil
}

// mustConvert panics on an unknown-unit failure; reserved for call sites
// converting between two constants defined above, where a failure
// indicates a programming error in this package rather than bad input.
func mustConvert(value float64, from, to string) float64 {
	v, err := convert(value, from, to)
	if err != nil {
		panic(err)
	}
	return v
}
