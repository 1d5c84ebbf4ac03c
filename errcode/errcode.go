package errcode

import "errors"

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Binding path
	ResourceNotFound Code = "resource_not_found"
	MapFailed        Code = "map_failed"
	Closed           Code = "closed"

	// Read path
	OutOfRange Code = "out_of_range"

	// Diagnostic only: post-map sanity read returned an all-zero or
	// all-ones sentinel. The binding still succeeds.
	InactiveTelemetry Code = "inactive_telemetry"

	// Service/control plane
	InvalidPeriod  Code = "invalid_period"
	InvalidPayload Code = "invalid_payload"
	InvalidTopic   Code = "invalid_topic"
	UnknownChannel Code = "unknown_channel"
	Unsupported    Code = "unsupported"

	Error Code = "error" // generic fallback
)

// E wraps a Code with operation context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.MapFailed) match through wrapping.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an E around a cause. A nil cause is permitted.
func Wrap(c Code, op string, err error) *E {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}
