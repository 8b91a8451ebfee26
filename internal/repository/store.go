package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/booking"
	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// SQLStore implements booking.Store over MySQL by composing the per-entity
// repositories.  InTx owns the transaction; the per-call view delegates to
// the repos' Tx-variant methods so the same SQL serves both the engine and
// any caller that drives transactions by hand.
type SQLStore struct {
	db        *sql.DB
	Films     *FilmRepo
	Halls     *HallRepo
	Sessions  *SessionRepo
	Users     *UserRepo
	Purchases *PurchaseRepo
}

// NewSQLStore builds the store and its repositories over one DB handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:        db,
		Films:     NewFilmRepo(db),
		Halls:     NewHallRepo(db),
		Sessions:  NewSessionRepo(db),
		Users:     NewUserRepo(db),
		Purchases: NewPurchaseRepo(db),
	}
}

// InTx runs fn inside one database transaction, committing on nil and
// rolling back otherwise.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx, s: s}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// sqlTx is the transaction-scoped view handed to the engine.
type sqlTx struct {
	tx *sql.Tx
	s  *SQLStore
}

// notFound maps the repo sentinels onto the booking error taxonomy so the
// engine and its callers only ever see booking errors.
func notFound(err error, entity string, id uint64) error {
	if errors.Is(err, ErrFilmNotFound) || errors.Is(err, ErrHallNotFound) ||
		errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrUserNotFound) {
		return &booking.Error{Kind: booking.KindNotFound, Entity: entity, EntityID: id, Msg: "no such " + entity}
	}
	return err
}

func (t *sqlTx) FilmByID(ctx context.Context, id uint64) (*model.Film, error) {
	f, err := t.s.Films.GetByIDTx(ctx, t.tx, id)
	if err != nil {
		return nil, notFound(err, "film", id)
	}
	return f, nil
}

func (t *sqlTx) FilmExists(ctx context.Context, f *model.Film) (bool, error) {
	return t.s.Films.ExistsDuplicateTx(ctx, t.tx, f)
}

func (t *sqlTx) InsertFilm(ctx context.Context, f *model.Film) error {
	return t.s.Films.CreateTx(ctx, t.tx, f)
}

func (t *sqlTx) DeleteFilm(ctx context.Context, id uint64) error {
	return t.s.Films.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) CountFilmSales(ctx context.Context, filmID uint64) (int, error) {
	return t.s.Films.CountSalesTx(ctx, t.tx, filmID)
}

func (t *sqlTx) HallForUpdate(ctx context.Context, id uint64) (*model.Hall, error) {
	h, err := t.s.Halls.GetForUpdateTx(ctx, t.tx, id)
	if err != nil {
		return nil, notFound(err, "hall", id)
	}
	return h, nil
}

func (t *sqlTx) HallNameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return t.s.Halls.NameTakenTx(ctx, t.tx, name, excludeID)
}

func (t *sqlTx) InsertHall(ctx context.Context, h *model.Hall) error {
	return t.s.Halls.CreateTx(ctx, t.tx, h)
}

func (t *sqlTx) UpdateHall(ctx context.Context, h *model.Hall) error {
	return t.s.Halls.UpdateTx(ctx, t.tx, h)
}

func (t *sqlTx) DeleteHall(ctx context.Context, id uint64) error {
	return t.s.Halls.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) ResizeHallSessions(ctx context.Context, hallID uint64, size int32) error {
	return t.s.Halls.ResizeSessionsTx(ctx, t.tx, hallID, size)
}

func (t *sqlTx) CountHallSales(ctx context.Context, hallID uint64) (int, error) {
	return t.s.Halls.CountSalesTx(ctx, t.tx, hallID)
}

func (t *sqlTx) CountActiveHallSales(ctx context.Context, hallID uint64, now time.Time) (int, error) {
	return t.s.Halls.CountActiveSalesTx(ctx, t.tx, hallID, now)
}

func (t *sqlTx) SessionForUpdate(ctx context.Context, id uint64) (*model.Session, error) {
	s, err := t.s.Sessions.GetForUpdateTx(ctx, t.tx, id)
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	return s, nil
}

func (t *sqlTx) SessionsInHall(ctx context.Context, hallID uint64) ([]model.Session, error) {
	return t.s.Sessions.ListByHallTx(ctx, t.tx, hallID)
}

func (t *sqlTx) InsertSession(ctx context.Context, s *model.Session) error {
	return t.s.Sessions.CreateTx(ctx, t.tx, s)
}

func (t *sqlTx) UpdateSession(ctx context.Context, s *model.Session) error {
	return t.s.Sessions.UpdateTx(ctx, t.tx, s)
}

func (t *sqlTx) DeleteSession(ctx context.Context, id uint64) error {
	return t.s.Sessions.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) SetSessionCapacity(ctx context.Context, id uint64, size int32) error {
	return t.s.Sessions.SetCapacityTx(ctx, t.tx, id, size)
}

func (t *sqlTx) CountSessionSales(ctx context.Context, sessionID uint64) (int, error) {
	return t.s.Sessions.CountSalesTx(ctx, t.tx, sessionID)
}

func (t *sqlTx) UserForUpdate(ctx context.Context, id uint64) (*model.User, error) {
	u, err := t.s.Users.GetForUpdateTx(ctx, t.tx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (t *sqlTx) SetUserWallet(ctx context.Context, id uint64, cents int64) error {
	return t.s.Users.SetWalletTx(ctx, t.tx, id, cents)
}

func (t *sqlTx) InsertPurchase(ctx context.Context, p *model.Purchase) error {
	return t.s.Purchases.CreateTx(ctx, t.tx, p)
}
