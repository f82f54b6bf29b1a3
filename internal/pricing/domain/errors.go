package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidWindow  = errors.New("pricing: window start must be before end")
	ErrInvalidGuests  = errors.New("pricing: guests must be >= 1")
	ErrInvalidRoomID  = errors.New("pricing: invalid room id")
	ErrRoomNotFound   = errors.New("pricing: room not found")
	ErrEmptyRateTable = errors.New("pricing: rate table must have at least one tier")
	ErrTierOrder      = errors.New("pricing: tier thresholds must strictly increase")
	ErrInvalidRule    = errors.New("pricing: invalid modifier rule")
	ErrInvalidKind    = errors.New("pricing: unknown rule kind")
)

// BelowMinimumStayError rejects windows shorter than the cheapest tier.
type BelowMinimumStayError struct {
	MinimumMinutes   int64
	RequestedMinutes int64
}

func (e *BelowMinimumStayError) Error() string {
	return fmt.Sprintf("pricing: requested %d min is below the %d min minimum stay",
		e.RequestedMinutes, e.MinimumMinutes)
}

// SpanningWindowError rejects windows that cross an override boundary, so a
// stay is never priced under two regimes.
type SpanningWindowError struct {
	OverrideID   snowflake.ID
	OverrideName string
}

func (e *SpanningWindowError) Error() string {
	return fmt.Sprintf("pricing: window crosses the boundary of override %q (%s)",
		e.OverrideName, e.OverrideID)
}

// AmbiguousOverrideError reports two overrides of equal precedence matching
// the same window. This is a merchant authoring defect, not a caller error.
type AmbiguousOverrideError struct {
	FirstID  snowflake.ID
	SecondID snowflake.ID
}

func (e *AmbiguousOverrideError) Error() string {
	return fmt.Sprintf("pricing: overrides %s and %s match with equal precedence",
		e.FirstID, e.SecondID)
}
