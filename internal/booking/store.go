package booking

import (
	"context"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// Store is the persistence boundary of the booking engine.  The MySQL
// implementation lives in internal/repository; tests use an in-memory one.
//
// InTx runs fn inside one transaction: every Tx call either commits together
// with the rest or not at all, and the ...ForUpdate reads take row locks (or
// an equivalent serialization) so concurrent purchases against the same
// session or wallet cannot interleave.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transaction-scoped view of the store.  Lookups return a
// KindNotFound booking error when the row does not exist.
type Tx interface {
	// Films.
	FilmByID(ctx context.Context, id uint64) (*model.Film, error)
	// FilmExists probes for a duplicate: same name (case-insensitive),
	// premiere window, runtime and genre.
	FilmExists(ctx context.Context, f *model.Film) (bool, error)
	InsertFilm(ctx context.Context, f *model.Film) error
	DeleteFilm(ctx context.Context, id uint64) error
	// CountFilmSales counts purchases against any session of the film.
	CountFilmSales(ctx context.Context, filmID uint64) (int, error)

	// Halls.
	// HallForUpdate reads the hall with a row lock held until commit.
	// Session placements and hall edits serialize on it.
	HallForUpdate(ctx context.Context, id uint64) (*model.Hall, error)
	// HallNameTaken reports whether a hall other than excludeID already uses
	// the name, case-insensitively.
	HallNameTaken(ctx context.Context, name string, excludeID uint64) (bool, error)
	InsertHall(ctx context.Context, h *model.Hall) error
	UpdateHall(ctx context.Context, h *model.Hall) error
	DeleteHall(ctx context.Context, id uint64) error
	// ResizeHallSessions sets hall_size on every session of the hall.
	ResizeHallSessions(ctx context.Context, hallID uint64, size int32) error
	// CountHallSales counts every purchase ever made in the hall.
	CountHallSales(ctx context.Context, hallID uint64) (int, error)
	// CountActiveHallSales counts purchases against sessions of the hall
	// ending after now.
	CountActiveHallSales(ctx context.Context, hallID uint64, now time.Time) (int, error)

	// Sessions.
	// SessionForUpdate reads the session with a row lock held until commit.
	SessionForUpdate(ctx context.Context, id uint64) (*model.Session, error)
	// SessionsInHall returns every session of the hall; the engine runs the
	// overlap rule against it while holding the hall's row lock.
	SessionsInHall(ctx context.Context, hallID uint64) ([]model.Session, error)
	InsertSession(ctx context.Context, s *model.Session) error
	UpdateSession(ctx context.Context, s *model.Session) error
	DeleteSession(ctx context.Context, id uint64) error
	// SetSessionCapacity writes the decremented hall_size of a sold session.
	SetSessionCapacity(ctx context.Context, id uint64, size int32) error
	CountSessionSales(ctx context.Context, sessionID uint64) (int, error)

	// Users.
	// UserForUpdate reads the user with a row lock held until commit.
	UserForUpdate(ctx context.Context, id uint64) (*model.User, error)
	// SetUserWallet writes the debited wallet balance.
	SetUserWallet(ctx context.Context, id uint64, cents int64) error

	// Purchases.
	InsertPurchase(ctx context.Context, p *model.Purchase) error
}
