package booking

import (
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// Mutation guard: stateless policies evaluated before any write to a film,
// hall or session.  Each function takes the sale counts the engine queried
// inside the surrounding transaction and returns nil or a typed error; the
// same inputs always produce the same answer.
//
// The edit rules are stricter than the delete rules: a hall or session that
// has ever sold a ticket is frozen for edits permanently, while deletes are
// only blocked while an unexpired purchase exists.  The asymmetry is kept
// per entity on purpose.

// CanDeleteFilm permits deletion unless tickets were sold for the film and
// its premiere window has not yet ended.
func CanDeleteFilm(f *model.Film, sold int, today time.Time) error {
	if sold > 0 && dateOf(f.EndPremier).After(dateOf(today)) {
		return newErr(KindLockedBySales, "film", f.ID, "",
			"tickets were sold for this film and its premiere has not ended")
	}
	return nil
}

// CanDeleteHall permits deletion unless purchases exist against a session of
// the hall that has not yet ended.  activeSold is the count of such purchases.
func CanDeleteHall(h *model.Hall, activeSold int) error {
	if activeSold > 0 {
		return newErr(KindLockedBySales, "hall", h.ID, "",
			"tickets were sold for an upcoming session in this hall")
	}
	return nil
}

// CanDeleteSession permits deletion unless the session has purchases and its
// end time is still in the future.
func CanDeleteSession(s *model.Session, sold int, now time.Time) error {
	if sold > 0 && s.EndsAt.After(now) {
		return newErr(KindLockedBySales, "session", s.ID, "",
			"tickets were sold for this session and it has not ended")
	}
	return nil
}

// CanEditHall permits edits unless the proposed name collides with a
// different hall (case-insensitive, reported as a duplicate) or any ticket
// was ever sold in the hall, past sessions included.
func CanEditHall(h *model.Hall, nameTaken bool, sold int) error {
	if nameTaken {
		return newErr(KindDuplicateResource, "hall", h.ID, "name",
			"a hall with this name already exists")
	}
	if sold > 0 {
		return newErr(KindLockedBySales, "hall", h.ID, "",
			"tickets were sold in this hall; it can no longer be edited")
	}
	return nil
}

// CanEditSession permits edits unless any purchase references the session,
// independent of whether the session is past or future.
func CanEditSession(s *model.Session, sold int) error {
	if sold > 0 {
		return newErr(KindLockedBySales, "session", s.ID, "",
			"tickets were sold for this session; it can no longer be edited")
	}
	return nil
}
