package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStateRepresentation matches every InvalidStateRepresentationError via errors.Is.
var ErrInvalidStateRepresentation = errors.New("invalid state representation")

// ErrEntityNotFound is returned when a provider has no description for the requested entity.
var ErrEntityNotFound = errors.New("entity not found")

// ErrUnitNotFound is returned when a unit store holds nothing under the requested key.
var ErrUnitNotFound = errors.New("compilation unit not found")

// Reason classifies an InvalidStateRepresentationError.
type Reason string

const (
	ReasonDuplicateState          Reason = "duplicate_state"
	ReasonDuplicateGroup          Reason = "duplicate_group"
	ReasonEmptyName               Reason = "empty_name"
	ReasonUnknownRelation         Reason = "unknown_relation"
	ReasonContradictoryAnd        Reason = "contradictory_and"
	ReasonConflictingAvailability Reason = "conflicting_availability"
	ReasonUnknownTarget           Reason = "unknown_target"
	ReasonAmbiguousTransition     Reason = "ambiguous_transition"
	ReasonTooManyPermutations     Reason = "too_many_permutations"
)

// InvalidStateRepresentationError reports an inconsistent entity description.
// It is permanent: generation of the whole entity is aborted.
type InvalidStateRepresentationError struct {
	Reason     Reason
	Entity     string
	Capability string
	States     []string
	Message    string
}

func (e *InvalidStateRepresentationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid state representation")
	if e.Entity != "" {
		fmt.Fprintf(&sb, " in %s", e.Entity)
	}
	if e.Capability != "" {
		fmt.Fprintf(&sb, " (capability %s)", e.Capability)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// Is makes errors.Is(err, ErrInvalidStateRepresentation) hold.
func (e *InvalidStateRepresentationError) Is(target error) bool {
	return target == ErrInvalidStateRepresentation
}

// AsInvalidStateRepresentation extracts the typed error from err's chain.
func AsInvalidStateRepresentation(err error) (*InvalidStateRepresentationError, bool) {
	var isr *InvalidStateRepresentationError
	if errors.As(err, &isr) {
		return isr, true
	}
	return nil, false
}

// WithEntity stamps the entity name on err when it is an InvalidStateRepresentationError
// that has none yet. Other errors are returned unchanged.
func WithEntity(err error, entity string) error {
	if isr, ok := AsInvalidStateRepresentation(err); ok && isr.Entity == "" {
		cp := *isr
		cp.Entity = entity
		return &cp
	}
	return err
}
