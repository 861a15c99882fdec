package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData marks a series too short for the requested
	// indicator or signal.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMalformedInput marks a series that violates the bar invariants.
	ErrMalformedInput = errors.New("malformed input")
)

// InsufficientDataError reports how much history was required.
type InsufficientDataError struct {
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d bars, have %d", e.Need, e.Have)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// MalformedInputError points at the first offending bar.
type MalformedInputError struct {
	Index  int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at bar %d: %s", e.Index, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }
