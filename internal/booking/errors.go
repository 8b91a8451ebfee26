// Package booking implements the session booking core: the capacity ledger
// that sells tickets atomically, the scheduling conflict checker that decides
// whether a session placement is legal, and the mutation guard that freezes
// films, halls and sessions once tickets have been sold against them.
//
// Every rule violation surfaces as an *Error carrying a Kind from the fixed
// taxonomy below plus the entity and field the caller needs to render a
// message.  Violations are ordinary recoverable outcomes; the engine never
// commits partial state before returning one.
package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a booking failure.  Handlers map kinds to HTTP statuses.
type Kind int

const (
	// KindInvalidInput covers non-positive counts, prices and capacities and
	// malformed time ranges.
	KindInvalidInput Kind = iota + 1
	// KindSchedulingConflict means the proposed window overlaps another
	// session in the same hall.
	KindSchedulingConflict
	// KindRuntimeConstraint means the session duration or premiere window
	// does not fit the film.
	KindRuntimeConstraint
	// KindInsufficientInventory means the requested ticket count exceeds the
	// session's remaining capacity.
	KindInsufficientInventory
	// KindInsufficientFunds means the purchase cost exceeds the buyer's wallet.
	KindInsufficientFunds
	// KindSessionAlreadyStarted means a purchase was attempted at or after
	// the session's start time.
	KindSessionAlreadyStarted
	// KindLockedBySales means an edit or delete is blocked because purchases
	// exist against the entity.
	KindLockedBySales
	// KindDuplicateResource means a film or hall with the same identity
	// already exists.
	KindDuplicateResource
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
)

var kindNames = map[Kind]string{
	KindInvalidInput:          "invalid input",
	KindSchedulingConflict:    "scheduling conflict",
	KindRuntimeConstraint:     "runtime constraint violation",
	KindInsufficientInventory: "insufficient inventory",
	KindInsufficientFunds:     "insufficient funds",
	KindSessionAlreadyStarted: "session already started",
	KindLockedBySales:         "locked by sales",
	KindDuplicateResource:     "duplicate resource",
	KindNotFound:              "not found",
}

// String returns a stable human-readable name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by the booking core.  Entity and
// EntityID identify the offending record, Field the offending attribute when
// one applies.
type Error struct {
	Kind     Kind
	Entity   string
	EntityID uint64
	Field    string
	Msg      string
}

func (e *Error) Error() string {
	if e.EntityID != 0 {
		return fmt.Sprintf("%s: %s %d: %s", e.Kind, e.Entity, e.EntityID, e.Msg)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// newErr builds an *Error.  Field may be empty when the violation concerns
// the entity as a whole.
func newErr(k Kind, entity string, id uint64, field, msg string) *Error {
	return &Error{Kind: k, Entity: entity, EntityID: id, Field: field, Msg: msg}
}

// KindOf extracts the Kind from err, or 0 when err is not a booking error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

// IsKind reports whether err is a booking error of the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
