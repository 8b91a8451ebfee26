package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// Listing filter values accepted by SessionRepo.List.  They mirror the
// public query parameters `period` and `ordering`.
const (
	PeriodAll      = "all"
	PeriodToday    = "today"
	PeriodTomorrow = "tomorrow"

	OrderByPrice     = "by_price"
	OrderByStartTime = "by_start_time"
)

// ListFilter narrows and orders the public session listing.  Zero values
// mean "all" and the default start-time ordering.
type ListFilter struct {
	Period   string
	Ordering string
}

// SessionDetail is a session joined with its film and hall names, returned
// by the read-side listing queries.
type SessionDetail struct {
	model.Session
	FilmName string `json:"film_name"`
	HallName string `json:"hall_name"`
}

// SessionRepo manages persistence for sessions.  Mutations run through the
// Tx variants under the engine's transaction; the plain methods serve the
// public read side.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin transactions
// spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB {
	return r.db
}

const sessionColumns = `id, film_id, hall_id, starts_at, ends_at, price_cents, hall_size, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.FilmID, &s.HallID, &s.StartsAt, &s.EndsAt, &s.PriceCents, &s.HallSize, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a session by its ID.  It returns ErrSessionNotFound if
// there is no matching row.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

const detailColumns = `s.id, s.film_id, s.hall_id, s.starts_at, s.ends_at, s.price_cents, s.hall_size,
                       s.created_at, s.updated_at, f.name, h.name`

func scanSessionDetail(row interface{ Scan(...any) error }) (*SessionDetail, error) {
	var d SessionDetail
	err := row.Scan(&d.ID, &d.FilmID, &d.HallID, &d.StartsAt, &d.EndsAt, &d.PriceCents, &d.HallSize,
		&d.CreatedAt, &d.UpdatedAt, &d.FilmName, &d.HallName)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail returns one session joined with film and hall names.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*SessionDetail, error) {
	const q = `SELECT ` + detailColumns + `
               FROM sessions s
               JOIN films f ON f.id = s.film_id
               JOIN halls h ON h.id = s.hall_id
               WHERE s.id = ?`
	d, err := scanSessionDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns sessions for the public listing, optionally narrowed to
// today's or tomorrow's screenings and ordered by price or start time.
func (r *SessionRepo) List(ctx context.Context, f ListFilter) ([]SessionDetail, error) {
	q := `SELECT ` + detailColumns + `
          FROM sessions s
          JOIN films f ON f.id = s.film_id
          JOIN halls h ON h.id = s.hall_id`
	var args []any
	today := time.Now().UTC().Truncate(24 * time.Hour)
	switch f.Period {
	case PeriodToday:
		q += ` WHERE DATE(s.starts_at) = ?`
		args = append(args, today.Format(dateLayout))
	case PeriodTomorrow:
		q += ` WHERE DATE(s.starts_at) = ?`
		args = append(args, today.AddDate(0, 0, 1).Format(dateLayout))
	}
	switch f.Ordering {
	case OrderByPrice:
		q += ` ORDER BY s.price_cents ASC, s.starts_at ASC`
	default:
		q += ` ORDER BY s.starts_at ASC, s.id ASC`
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionDetail
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Search returns today's sessions whose start falls inside the clock-time
// range [from, to], optionally narrowed to a hall by case-insensitive name.
// Zero times leave the range unconstrained.
func (r *SessionRepo) Search(ctx context.Context, from, to time.Time, hallName string) ([]SessionDetail, error) {
	q := `SELECT ` + detailColumns + `
          FROM sessions s
          JOIN films f ON f.id = s.film_id
          JOIN halls h ON h.id = s.hall_id
          WHERE DATE(s.starts_at) = ?`
	args := []any{time.Now().UTC().Format(dateLayout)}
	if !from.IsZero() && !to.IsZero() {
		q += ` AND TIME(s.starts_at) BETWEEN ? AND ?`
		args = append(args, from.Format("15:04:05"), to.Format("15:04:05"))
	}
	if hallName != "" {
		q += ` AND LOWER(h.name) = LOWER(?)`
		args = append(args, hallName)
	}
	q += ` ORDER BY s.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionDetail
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// GetForUpdateTx reads the session with a row lock held until the caller's
// transaction ends.  Concurrent purchases of the same session serialize here.
func (r *SessionRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? FOR UPDATE`
	s, err := scanSession(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListByHallTx returns every session of the hall within the caller's
// transaction.  The engine evaluates the overlap rule against this set while
// holding the hall's row lock, so two concurrent placements in one hall
// cannot both pass.
func (r *SessionRepo) ListByHallTx(ctx context.Context, tx *sql.Tx, hallID uint64) ([]model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE hall_id = ? ORDER BY starts_at ASC`
	rows, err := tx.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// CreateTx inserts a new session and populates the generated ID and
// DB-default timestamps on the given Session.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	const q = `INSERT INTO sessions (film_id, hall_id, starts_at, ends_at, price_cents, hall_size)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.FilmID, s.HallID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.PriceCents, s.HallSize)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	got, err := scanSession(tx.QueryRowContext(ctx, sel, s.ID))
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

// UpdateTx rewrites all writable attributes of the session, including the
// hall_size re-snapshot taken by the engine.
func (r *SessionRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	const q = `UPDATE sessions
               SET film_id = ?, hall_id = ?, starts_at = ?, ends_at = ?, price_cents = ?, hall_size = ?,
                   updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, s.FilmID, s.HallID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.PriceCents, s.HallSize, s.ID)
	return err
}

// DeleteTx removes the session row.
func (r *SessionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// SetCapacityTx writes the decremented hall_size of a sold session.
func (r *SessionRepo) SetCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, size int32) error {
	_, err := tx.ExecContext(ctx, `UPDATE sessions SET hall_size = ? WHERE id = ?`, size, id)
	return err
}

// CountSalesTx counts purchases referencing the session.  A locking read:
// it waits for an in-flight purchase of the session to commit rather than
// reporting a stale zero from the transaction's snapshot.
func (r *SessionRepo) CountSalesTx(ctx context.Context, tx *sql.Tx, sessionID uint64) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases WHERE session_id = ? FOR UPDATE`, sessionID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
