package engine

import (
	"errors"
	"fmt"

	"github.com/vishwaksen/campus-scheduler/internal/validator"
)

// Taxonomy per spec.md §7: a closed set of terminal error kinds the
// dispatcher can surface, independent of which algorithm produced them.
var (
	ErrInput        = errors.New("engine: invalid input")
	ErrTimeout      = errors.New("engine: deadline exceeded before a schedule was found")
	ErrInfeasible   = errors.New("engine: no algorithm could produce a feasible schedule")
	ErrSoftViolation = errors.New("engine: schedule produced but soft constraints were violated")
)

// InternalInvariantError reports that an algorithm returned "success" but
// the independent validator found hard violations in the resulting Grid.
// This must never happen; spec.md §7 treats it as a fail-loud bug rather
// than a silently emitted Grid, so it is never wrapped into ErrInfeasible.
type InternalInvariantError struct {
	Violations []validator.Violation
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("engine: internal invariant violated, %d hard violations on a reported success", len(e.Violations))
}

func (e *InternalInvariantError) Unwrap() error { return ErrInternalInvariant }

// ErrInternalInvariant is the sentinel errors.Is callers match against;
// the concrete error is always an *InternalInvariantError carrying the
// violation list, reachable via errors.As.
var ErrInternalInvariant = errors.New("engine: internal invariant violated")
