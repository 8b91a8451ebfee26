package booking

import (
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// ScheduleSlack is how much longer than the film's runtime a session may
// last, covering trailers and hall cleanup.
const ScheduleSlack = 20 * time.Minute

// Placement describes a proposed session window in a hall.  The same value
// is validated for both creation and update; on update ExcludeID carries the
// session's own ID so it is not matched against itself.
type Placement struct {
	HallID     uint64
	Start      time.Time
	End        time.Time
	PriceCents int64
	ExcludeID  uint64
}

// Overlaps reports whether the half-open windows [s1,e1) and [s2,e2)
// conflict.  Touching at a boundary (one ends exactly when the other starts)
// is not a conflict; equality, containment and partial overlap are.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// ValidatePlacement decides whether the proposed placement is legal for the
// given film.  others must contain every other session currently persisted
// in the target hall (the caller queries them while holding the hall's row
// lock, so two concurrent placements cannot both pass).  The
// first violated rule is returned as a typed error; nil means all rules pass.
//
// Rules, in evaluation order:
//   - start < end
//   - film runtime  ≤ end-start ≤ film runtime + ScheduleSlack
//   - session dates inside the film's premiere window (date precision)
//   - price > 0
//   - no overlap with another session in the hall
func ValidatePlacement(film *model.Film, p Placement, others []model.Session) error {
	if !p.Start.Before(p.End) {
		return newErr(KindInvalidInput, "session", p.ExcludeID, "start", "session must start before it ends")
	}
	dur := p.End.Sub(p.Start)
	if dur < film.Runtime || dur > film.Runtime+ScheduleSlack {
		return newErr(KindRuntimeConstraint, "session", p.ExcludeID, "end",
			"session duration must cover the film runtime and exceed it by at most 20 minutes")
	}
	if dateOf(p.Start).Before(dateOf(film.StartPremier)) {
		return newErr(KindRuntimeConstraint, "session", p.ExcludeID, "start",
			"session starts before the film's premiere window")
	}
	if dateOf(p.End).After(dateOf(film.EndPremier)) {
		return newErr(KindRuntimeConstraint, "session", p.ExcludeID, "end",
			"session ends after the film's premiere window")
	}
	if p.PriceCents <= 0 {
		return newErr(KindInvalidInput, "session", p.ExcludeID, "price", "price must be positive")
	}
	for i := range others {
		o := &others[i]
		if o.ID == p.ExcludeID {
			continue
		}
		if o.HallID == p.HallID && Overlaps(p.Start, p.End, o.StartsAt, o.EndsAt) {
			return newErr(KindSchedulingConflict, "session", o.ID, "hall",
				"this time in that hall is already booked")
		}
	}
	return nil
}

// ValidateFilm checks the film-level invariants: runtime bounds, premiere
// window ordering and genre membership.  Duplicate detection is a database
// concern handled by the engine.
func ValidateFilm(f *model.Film) error {
	if f.Name == "" {
		return newErr(KindInvalidInput, "film", f.ID, "name", "name is required")
	}
	if f.Runtime < model.MinFilmRuntime {
		return newErr(KindInvalidInput, "film", f.ID, "runtime", "film runtime must be at least 01:30:00")
	}
	if f.Runtime > model.MaxFilmRuntime {
		return newErr(KindInvalidInput, "film", f.ID, "runtime", "film runtime must be at most 04:00:00")
	}
	if dateOf(f.StartPremier).After(dateOf(f.EndPremier)) {
		return newErr(KindInvalidInput, "film", f.ID, "start_premier", "premiere window is inverted")
	}
	if !model.ValidGenre(f.Genre) {
		return newErr(KindInvalidInput, "film", f.ID, "genre", "unknown genre")
	}
	return nil
}

// dateOf truncates t to its calendar day in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
