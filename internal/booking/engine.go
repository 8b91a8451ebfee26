package booking

import (
	"context"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// Engine exposes one function per mutating command of the booking core.
// Every command runs as a single bounded transaction on the Store; callers
// (the HTTP layer) only supply identities and payloads.  Read-side listing
// and filtering live in the repository layer, not here.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine constructs an Engine on top of the given store.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// NewEngineAt is NewEngine with an injectable clock, used by tests.
func NewEngineAt(store Store, now func() time.Time) *Engine {
	e := NewEngine(store)
	e.now = now
	return e
}

// CreateFilm validates and persists a new film.  A film with identical name
// (case-insensitive), premiere window, runtime and genre is a duplicate.
func (e *Engine) CreateFilm(ctx context.Context, f *model.Film) error {
	if err := ValidateFilm(f); err != nil {
		return err
	}
	return e.store.InTx(ctx, func(tx Tx) error {
		dup, err := tx.FilmExists(ctx, f)
		if err != nil {
			return err
		}
		if dup {
			return newErr(KindDuplicateResource, "film", 0, "name", "this film has already been added")
		}
		return tx.InsertFilm(ctx, f)
	})
}

// DeleteFilm removes a film unless the mutation guard blocks it.
func (e *Engine) DeleteFilm(ctx context.Context, id uint64) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		f, err := tx.FilmByID(ctx, id)
		if err != nil {
			return err
		}
		sold, err := tx.CountFilmSales(ctx, id)
		if err != nil {
			return err
		}
		if err := CanDeleteFilm(f, sold, e.now()); err != nil {
			return err
		}
		return tx.DeleteFilm(ctx, id)
	})
}

// CreateHall persists a new hall after checking capacity and name uniqueness.
func (e *Engine) CreateHall(ctx context.Context, h *model.Hall) error {
	if h.Name == "" {
		return newErr(KindInvalidInput, "hall", 0, "name", "name is required")
	}
	if h.Capacity <= 0 {
		return newErr(KindInvalidInput, "hall", 0, "capacity", "capacity must be greater than zero")
	}
	return e.store.InTx(ctx, func(tx Tx) error {
		taken, err := tx.HallNameTaken(ctx, h.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return newErr(KindDuplicateResource, "hall", 0, "name", "a hall with this name already exists")
		}
		return tx.InsertHall(ctx, h)
	})
}

// UpdateHall renames and/or resizes a hall.  Resizing cascades the new
// capacity into hall_size of every session of the hall, overwriting any
// decrements from earlier sales.  The guard rejects the edit outright once
// any ticket was ever sold in the hall, so the overwrite can only hit
// sessions that never sold.  The hall row lock and the locking sale count
// make that guard wait out in-flight purchases instead of reading a stale
// snapshot past them.
func (e *Engine) UpdateHall(ctx context.Context, h *model.Hall) error {
	if h.Name == "" {
		return newErr(KindInvalidInput, "hall", h.ID, "name", "name is required")
	}
	if h.Capacity <= 0 {
		return newErr(KindInvalidInput, "hall", h.ID, "capacity", "capacity must be greater than zero")
	}
	return e.store.InTx(ctx, func(tx Tx) error {
		cur, err := tx.HallForUpdate(ctx, h.ID)
		if err != nil {
			return err
		}
		taken, err := tx.HallNameTaken(ctx, h.Name, h.ID)
		if err != nil {
			return err
		}
		sold, err := tx.CountHallSales(ctx, h.ID)
		if err != nil {
			return err
		}
		if err := CanEditHall(cur, taken, sold); err != nil {
			return err
		}
		if err := tx.UpdateHall(ctx, h); err != nil {
			return err
		}
		return tx.ResizeHallSessions(ctx, h.ID, h.Capacity)
	})
}

// DeleteHall removes a hall unless upcoming sold sessions block it.
func (e *Engine) DeleteHall(ctx context.Context, id uint64) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		h, err := tx.HallForUpdate(ctx, id)
		if err != nil {
			return err
		}
		active, err := tx.CountActiveHallSales(ctx, id, e.now())
		if err != nil {
			return err
		}
		if err := CanDeleteHall(h, active); err != nil {
			return err
		}
		return tx.DeleteHall(ctx, id)
	})
}

// SessionCommand carries the writable attributes of a session for
// CreateSession and UpdateSession.  ID is zero on create.
type SessionCommand struct {
	ID         uint64
	FilmID     uint64
	HallID     uint64
	StartsAt   time.Time
	EndsAt     time.Time
	PriceCents int64
}

// CreateSession validates the placement inside the write transaction and
// persists the session with hall_size snapshotted from the hall capacity.
// The hall row is read under a row lock, so concurrent placements in the
// same hall validate one at a time and cannot both miss each other's insert.
func (e *Engine) CreateSession(ctx context.Context, cmd SessionCommand) (*model.Session, error) {
	var out *model.Session
	err := e.store.InTx(ctx, func(tx Tx) error {
		film, err := tx.FilmByID(ctx, cmd.FilmID)
		if err != nil {
			return err
		}
		hall, err := tx.HallForUpdate(ctx, cmd.HallID)
		if err != nil {
			return err
		}
		others, err := tx.SessionsInHall(ctx, cmd.HallID)
		if err != nil {
			return err
		}
		p := Placement{HallID: cmd.HallID, Start: cmd.StartsAt, End: cmd.EndsAt, PriceCents: cmd.PriceCents}
		if err := ValidatePlacement(film, p, others); err != nil {
			return err
		}
		s := &model.Session{
			FilmID:     cmd.FilmID,
			HallID:     cmd.HallID,
			StartsAt:   cmd.StartsAt,
			EndsAt:     cmd.EndsAt,
			PriceCents: cmd.PriceCents,
			HallSize:   hall.Capacity,
		}
		if err := tx.InsertSession(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// UpdateSession re-validates the placement and rewrites the session.  Any
// existing purchase freezes the session entirely, regardless of whether the
// new placement would be valid.  hall_size is re-snapshotted from the hall's
// current capacity, as on create.  The session and hall rows are read under
// row locks, so the freeze check waits out any in-flight purchase and the
// placement check serializes against concurrent placements in the hall.
func (e *Engine) UpdateSession(ctx context.Context, cmd SessionCommand) (*model.Session, error) {
	var out *model.Session
	err := e.store.InTx(ctx, func(tx Tx) error {
		cur, err := tx.SessionForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}
		sold, err := tx.CountSessionSales(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if err := CanEditSession(cur, sold); err != nil {
			return err
		}
		film, err := tx.FilmByID(ctx, cmd.FilmID)
		if err != nil {
			return err
		}
		hall, err := tx.HallForUpdate(ctx, cmd.HallID)
		if err != nil {
			return err
		}
		others, err := tx.SessionsInHall(ctx, cmd.HallID)
		if err != nil {
			return err
		}
		p := Placement{HallID: cmd.HallID, Start: cmd.StartsAt, End: cmd.EndsAt, PriceCents: cmd.PriceCents, ExcludeID: cmd.ID}
		if err := ValidatePlacement(film, p, others); err != nil {
			return err
		}
		s := &model.Session{
			ID:         cmd.ID,
			FilmID:     cmd.FilmID,
			HallID:     cmd.HallID,
			StartsAt:   cmd.StartsAt,
			EndsAt:     cmd.EndsAt,
			PriceCents: cmd.PriceCents,
			HallSize:   hall.Capacity,
		}
		if err := tx.UpdateSession(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// DeleteSession removes a session unless unexpired purchases block it.  The
// row lock makes the guard wait out any in-flight purchase of the session.
func (e *Engine) DeleteSession(ctx context.Context, id uint64) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		s, err := tx.SessionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		sold, err := tx.CountSessionSales(ctx, id)
		if err != nil {
			return err
		}
		if err := CanDeleteSession(s, sold, e.now()); err != nil {
			return err
		}
		return tx.DeleteSession(ctx, id)
	})
}

// Purchase sells count tickets of the session to the user.  The session and
// user rows are read under row locks; the capacity decrement, wallet debit
// and purchase insert commit together or not at all.
func (e *Engine) Purchase(ctx context.Context, userID, sessionID uint64, count int32) (*model.Purchase, error) {
	var out *model.Purchase
	err := e.store.InTx(ctx, func(tx Tx) error {
		s, err := tx.SessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		u, err := tx.UserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		now := e.now()
		if err := CheckPurchase(s, u, count, now); err != nil {
			return err
		}
		total := PurchaseTotal(s, count)
		if err := tx.SetSessionCapacity(ctx, s.ID, s.HallSize-count); err != nil {
			return err
		}
		if err := tx.SetUserWallet(ctx, u.ID, u.WalletCents-total); err != nil {
			return err
		}
		p := &model.Purchase{
			SessionID:  s.ID,
			UserID:     u.ID,
			Count:      count,
			TotalCents: total,
			CreatedAt:  now,
		}
		if err := tx.InsertPurchase(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}
