package astro

import (
	"fmt"
)

// ErrorKind classifies failures and recovered conditions in sky computations.
type ErrorKind string

const (
	// KindInvalidCoordinates marks malformed latitude/longitude or RA/Dec.
	// It is the only kind returned to callers as a hard failure.
	KindInvalidCoordinates ErrorKind = "invalid_coordinates"

	// KindDegenerateNightWindow marks a night whose dusk is not before dawn.
	KindDegenerateNightWindow ErrorKind = "degenerate_night_window"

	// KindMissingOptionalData marks an absent optional input that was
	// replaced by its neutral default.
	KindMissingOptionalData ErrorKind = "missing_optional_data"
)

// Error is a classified sky computation error.
type Error struct {
	Kind    ErrorKind
	Field   string
	Value   float64
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s=%g: %s", e.Kind, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind, so that the
// package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidCoordinates    = &Error{Kind: KindInvalidCoordinates, Message: "invalid coordinates"}
	ErrDegenerateNightWindow = &Error{Kind: KindDegenerateNightWindow, Message: "dusk is not before dawn"}
	ErrMissingOptionalData   = &Error{Kind: KindMissingOptionalData, Message: "optional data absent"}
)

func invalidCoordinate(field string, value float64, msg string) error {
	return &Error{Kind: KindInvalidCoordinates, Field: field, Value: value, Message: msg}
}

// ValidateRADec checks an equatorial position. RA must be in [0, 360) and
// Dec in [-90, 90]; NaN and infinities are rejected.
func ValidateRADec(raDeg, decDeg float64) error {
	if !isFinite(raDeg) || raDeg < 0 || raDeg >= 360 {
		return invalidCoordinate("ra_deg", raDeg, "right ascension must be in [0, 360)")
	}
	if !isFinite(decDeg) || decDeg < -90 || decDeg > 90 {
		return invalidCoordinate("dec_deg", decDeg, "declination must be in [-90, 90]")
	}
	return nil
}
