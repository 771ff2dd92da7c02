// Package confidence decides whether the fields extracted from a document can be
// surfaced without manual review.
//
// Everything in this package is pure: inputs arrive as arguments, nothing is read
// from configuration or storage, and every function is safe for concurrent use.
package confidence

import (
	"errors"
	"fmt"
)

// State is the confidence classification persisted onto a document.
type State string

const (
	// Empty means the document has no extracted fields.
	Empty State = "EMPTY"
	// NeedsRevision means at least one required field is below threshold
	// and has not been manually confirmed.
	NeedsRevision State = "NEEDS_REVISION"
	// Verified means every required field that fell below threshold has
	// since been manually confirmed.
	Verified State = "VERIFIED"
	// Trusted means no required field fell below threshold.
	Trusted State = "TRUSTED"
)

// ErrInvalidState is returned when a string does not name a State.
var ErrInvalidState = errors.New("invalid confidence state")

// States lists every State in decision priority order.
var States = []State{Empty, NeedsRevision, Verified, Trusted}

// Valid reports whether s is one of the four states.
func (s State) Valid() bool {
	switch s {
	case Empty, NeedsRevision, Verified, Trusted:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// ParseState converts a stored or user-supplied value into a State.
func ParseState(v string) (State, error) {
	s := State(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, v)
	}
	return s, nil
}
