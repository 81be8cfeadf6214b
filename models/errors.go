package models

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when a listing page cannot be retrieved.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrFetchFailed is returned when an article page cannot be retrieved.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrExtractionFailed is returned when no article body could be located.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrUnresolvable is returned when a reference matches no known pattern.
	ErrUnresolvable = errors.New("reference unresolvable")
	// ErrOutOfRange is returned when a resolved index is outside the cached listing.
	ErrOutOfRange = errors.New("reference out of range")
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownSource is returned for source ids missing from the catalogue.
	ErrUnknownSource = errors.New("unknown source")
	// ErrInvalidArgument is returned for malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// FailureKind is the inspectable category of a failed boundary operation.
type FailureKind string

const (
	KindUnresolvable      FailureKind = "Unresolvable"
	KindOutOfRange        FailureKind = "OutOfRange"
	KindFetchFailed       FailureKind = "FetchFailed"
	KindExtractionFailed  FailureKind = "ExtractionFailed"
	KindSourceUnavailable FailureKind = "SourceUnavailable"
	KindSessionNotFound   FailureKind = "SessionNotFound"
	KindInvalid           FailureKind = "Invalid"
	KindInternal          FailureKind = "Internal"
)

// RangeError reports a position outside 1..Size.
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	if e.Size == 0 {
		return fmt.Sprintf("%v: no headlines available", ErrOutOfRange)
	}
	return fmt.Sprintf("%v: %d requested, only %d headlines available", ErrOutOfRange, e.Index, e.Size)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Failure is the structured failure handed to the orchestration layer.
type Failure struct {
	Kind      FailureKind `json:"kind"`
	Message   string      `json:"message"`
	Available int         `json:"available,omitempty"`
}

// KindOf classifies err. Unknown errors are Internal.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnresolvable):
		return KindUnresolvable
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrFetchFailed):
		return KindFetchFailed
	case errors.Is(err, ErrExtractionFailed):
		return KindExtractionFailed
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, ErrSessionNotFound):
		return KindSessionNotFound
	case errors.Is(err, ErrUnknownSource), errors.Is(err, ErrInvalidArgument):
		return KindInvalid
	}
	return KindInternal
}

// FailureFrom converts err into a Failure. A nil error yields nil.
func FailureFrom(err error) *Failure {
	if err == nil {
		return nil
	}
	f := &Failure{Kind: KindOf(err), Message: err.Error()}
	var re *RangeError
	if errors.As(err, &re) {
		f.Available = re.Size
	}
	return f
}
