package mem

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrContractViolation is the root of all errors caused by a caller that
	// broke the construction contract.  The caller must be fixed.
	ErrContractViolation = errors.New("contract violation")

	// ErrDomain is the root of all errors caused by invalid, but foreseeable,
	// input.  Callers are expected to handle these.
	ErrDomain = errors.New("domain violation")
)

// Contract violations.
var (
	ErrWrongKind         = contract("wrong foundation kind")
	ErrNotAttrName       = contract("value is not an Attr_Name")
	ErrNotHeading        = contract("value is not a Heading")
	ErrNotUnique         = contract("bag members are not unique")
	ErrBadMultiplicity   = contract("multiplicity must be positive")
	ErrDuplicateAttrName = contract("duplicate attribute name")
	ErrMisplacedAttrName = contract("positional attribute name in an overflow slot")
	ErrNilValue          = contract("nil value")
)

// Domain violations.
var (
	ErrZeroDenominator  = domain("denominator is zero")
	ErrMalformedText    = domain("malformed text")
	ErrNoSuchAttrName   = domain("no such attribute name")
	ErrNoSuchOrdPos     = domain("no such ordinal position")
	ErrNotSameHeading   = domain("members do not share a common heading")
	ErrEmptyBody        = domain("cannot infer a heading from an empty body")
	ErrNegativeQuantity = domain("quantity is negative")
	ErrTooLarge         = domain("array would exceed the maximum length")
)

func contract(msg string) error { return errors.WithMessage(ErrContractViolation, msg) }
func domain(msg string) error   { return errors.WithMessage(ErrDomain, msg) }

// ArgumentError identifies the argument that caused a construction to fail.
type ArgumentError struct {
	Arg string
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument '%s': %v", e.Arg, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArgumentError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *ArgumentError) Cause() error { return e.Err }

func argError(arg string, err error) error {
	return &ArgumentError{Arg: arg, Err: err}
}

func argErrorf(arg string, err error, format string, args ...any) error {
	return &ArgumentError{Arg: arg, Err: errors.WithMessagef(err, format, args...)}
}

func wrongKind(v *Value, want ...Kind) error {
	return errors.WithMessagef(ErrWrongKind, "%s is not %v", v.kind, want)
}
