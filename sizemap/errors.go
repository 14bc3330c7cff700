package sizemap

import (
	"errors"
	"fmt"
)

var (
	// ErrBadGeometry indicates the allocator constants are unusable.
	ErrBadGeometry = errors.New("sizemap: bad geometry")

	// ErrInvalidSizeClasses indicates a size-class list failed validation.
	ErrInvalidSizeClasses = errors.New("sizemap: invalid size classes")

	// ErrNoOverride is returned by an OverrideSource that has nothing to supply.
	ErrNoOverride = errors.New("sizemap: no override")

	// ErrClassCountMismatch indicates an override tried to change the number of classes.
	ErrClassCountMismatch = errors.New("sizemap: can't change the number of size classes")
)

// Reason names the invariant a size-class list violated.
type Reason string

const (
	ReasonCount         Reason = "count"            // no classes, or more than the geometry holds
	ReasonReserved      Reason = "reserved"         // class 0 is not {0, 0, 0}
	ReasonNonIncreasing Reason = "non-increasing"   // size[c] <= size[c-1]
	ReasonTooBig        Reason = "too-big"          // size[c] > MaxSize
	ReasonMisaligned    Reason = "misaligned"       // tier alignment violated
	ReasonMultiPage     Reason = "multi-page"       // small class with pages != 1
	ReasonNoPages       Reason = "no-pages"         // pages < 1
	ReasonTooManyPages  Reason = "too-many-pages"   // pages >= 256
	ReasonTooManyToMove Reason = "too-many-to-move" // batch above MaxObjectsToMove
	ReasonLastNotMax    Reason = "last-not-max"     // last size != MaxSize
)

// ValidationError reports the first invariant a size-class list violates.
type ValidationError struct {
	Reason Reason // Which invariant failed
	Index  int    // Offending class index (-1 when not tied to a class)
	Value  int    // Observed value
	Limit  int    // Bound the value was checked against
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sizemap: invalid size classes: %s at class %d (value %d, limit %d)",
		e.Reason, e.Index, e.Value, e.Limit)
}

// Unwrap lets errors.Is match ErrInvalidSizeClasses.
func (e *ValidationError) Unwrap() error { return ErrInvalidSizeClasses }

// logArgs renders the error as slog key-value pairs.
func (e *ValidationError) logArgs() []any {
	return []any{
		"reason", string(e.Reason),
		"index", e.Index,
		"value", e.Value,
		"limit", e.Limit,
	}
}

// InvariantError is the panic value raised when a built table contradicts
// itself. It is never returned as an ordinary error.
type InvariantError struct {
	Msg  string
	Args []any // slog-style key-value pairs
}

func (e *InvariantError) Error() string {
	if len(e.Args) == 0 {
		return "sizemap: internal invariant violated: " + e.Msg
	}
	return fmt.Sprintf("sizemap: internal invariant violated: %s %v", e.Msg, e.Args)
}
