package main

import "errors"

// Error kinds surfaced by the engine. Callers match them with errors.Is;
// every concrete error returned by a setter or solver wraps one of these
// with fmt.Errorf("...: %w", ErrX).
var (
	// ErrUnknownUnit is returned when convert() is asked about a unit that
	// is not in the conversion map.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrBadUnit is returned when a setter receives a unit that is
	// syntactically present but not valid for that quantity.
	ErrBadUnit = errors.New("bad unit")

	// ErrOutOfRange is returned by validation in setters and conversions.
	ErrOutOfRange = errors.New("value out of range")

	// ErrNoSolution is returned by a numeric solve that does not bracket or
	// does not converge; an IC solver setter that returns it leaves the IC
	// state as it was before the call.
	ErrNoSolution = errors.New("no solution")

	// ErrTrimFailed is returned when the trim loop exceeds its iteration
	// cap with residual axes out of tolerance. Non-fatal: per-axis
	// diagnostics are still available on the Result.
	ErrTrimFailed = errors.New("trim failed")

	// ErrBadSchema is returned when an initialization XML document is not
	// well-formed or asks for a run without a trim, when an aircraft
	// configuration is malformed or lacks a required section, and for an
	// unknown or read-only property path. Unrecognized XML elements are
	// ignored, not rejected.
	ErrBadSchema = errors.New("bad schema")

	// ErrUnsupportedVersion is returned when an initialization document
	// declares version >= 3.0.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrMissingCollaborator is fatal and aborts construction of any
	// component requiring a Propagate/Aerodynamics/Propulsion/
	// GroundReactions/Inertial/FlightControlSystem handle.
	ErrMissingCollaborator = errors.New("missing collaborator")
)
