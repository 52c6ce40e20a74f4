// Package errors provides the structured error taxonomy for the placement
// engine: five machine-readable error kinds, each surfaced at a specific
// stage of the pipeline, with wrapping and code inspection helpers.
//
// # Usage
//
//	err := errors.New(errors.CapacityError, "movable area %.0f exceeds region area %.0f", area, regionArea)
//	if errors.Is(err, errors.CapacityError) {
//	    // Handle before any solve
//	}
//
//	err := errors.Wrap(errors.NumericError, cgErr, "conjugate gradient diverged on axis x")
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

// The five error kinds surfaced by the placement engine.
const (
	// ConfigError signals an illegal region, filling rate, row height,
	// max-plug distance, or unknown net model. Surfaced before any
	// placement work begins.
	ConfigError Code = "CONFIG_ERROR"

	// CapacityError signals that total movable cell area exceeds the
	// region area, or the largest cell dimension exceeds the region
	// dimension. Surfaced at the boundary check before Run starts solving.
	CapacityError Code = "CAPACITY_ERROR"

	// ConvergenceError signals that LAL could not find a minimum bounding
	// box for a cluster within die bounds, or that outer iterations
	// exhausted without convergence.
	ConvergenceError Code = "CONVERGENCE_ERROR"

	// LegalizationError signals that both the bottom-up and top-down
	// cluster passes overflowed a stripe.
	LegalizationError Code = "LEGALIZATION_ERROR"

	// NumericError signals that the conjugate-gradient solve diverged.
	NumericError Code = "NUMERIC_ERROR"
)

// Error is a structured error carrying a Code, a human-readable Message,
// and an optional underlying Cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given code wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err has the given error code, unwrapping the error
// chain as needed.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ConvergenceFailure is a ConvergenceError carrying the best HPWL observed
// before giving up, so a caller can decide whether the partial layout is
// usable.
type ConvergenceFailure struct {
	Err      *Error
	BestHPWL float64
}

// NewConvergenceFailure builds a ConvergenceError with its HPWL payload.
func NewConvergenceFailure(bestHPWL float64, format string, args ...any) *ConvergenceFailure {
	return &ConvergenceFailure{
		Err:      New(ConvergenceError, format, args...),
		BestHPWL: bestHPWL,
	}
}

// Error implements the error interface by forwarding to the wrapped *Error.
func (cf *ConvergenceFailure) Error() string { return cf.Err.Error() }

// Unwrap exposes the wrapped *Error so errors.As/Is can reach its Code.
func (cf *ConvergenceFailure) Unwrap() error { return cf.Err }

// LegalizationFailure is a LegalizationError carrying the index of the
// stripe that overflowed.
type LegalizationFailure struct {
	Err         *Error
	StripeIndex int
}

// NewLegalizationFailure builds a LegalizationError with its stripe payload.
func NewLegalizationFailure(stripeIndex int, format string, args ...any) *LegalizationFailure {
	return &LegalizationFailure{
		Err:         New(LegalizationError, format, args...),
		StripeIndex: stripeIndex,
	}
}

// Error implements the error interface by forwarding to the wrapped *Error.
func (lf *LegalizationFailure) Error() string { return lf.Err.Error() }

// Unwrap exposes the wrapped *Error so errors.As/Is can reach its Code.
func (lf *LegalizationFailure) Unwrap() error { return lf.Err }
