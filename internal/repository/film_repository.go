package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// dateLayout is how DATE columns are formatted when used as query params.
const dateLayout = "2006-01-02"

// FilmRepo manages persistence for films.  Runtime is stored in the
// runtime_min column as whole minutes; premiere bounds are DATE columns.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *FilmRepo) DB() *sql.DB {
	return r.db
}

const filmColumns = `id, name, start_premier, end_premier, runtime_min, genre, description, created_at, updated_at`

// scanFilm reads one films row into a model.Film.
func scanFilm(row interface{ Scan(...any) error }) (*model.Film, error) {
	var (
		f          model.Film
		runtimeMin int64
		desc       sql.NullString
	)
	err := row.Scan(&f.ID, &f.Name, &f.StartPremier, &f.EndPremier, &runtimeMin, &f.Genre, &desc, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Runtime = time.Duration(runtimeMin) * time.Minute
	if desc.Valid {
		d := desc.String
		f.Description = &d
	}
	return &f, nil
}

// GetByID retrieves a film by its ID.  It returns ErrFilmNotFound if there
// is no matching row.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
	const q = `SELECT ` + filmColumns + ` FROM films WHERE id = ?`
	f, err := scanFilm(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns all films ordered by premiere start, newest window first.
func (r *FilmRepo) List(ctx context.Context) ([]model.Film, error) {
	const q = `SELECT ` + filmColumns + ` FROM films ORDER BY start_premier DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *FilmRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Film, error) {
	const q = `SELECT ` + filmColumns + ` FROM films WHERE id = ?`
	f, err := scanFilm(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	return f, nil
}

// ExistsDuplicateTx probes for a film with the same name (case-insensitive),
// premiere window, runtime and genre.
func (r *FilmRepo) ExistsDuplicateTx(ctx context.Context, tx *sql.Tx, f *model.Film) (bool, error) {
	const q = `SELECT 1 FROM films
               WHERE LOWER(name) = LOWER(?) AND start_premier = ? AND end_premier = ?
                 AND runtime_min = ? AND genre = ?
               LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q,
		f.Name,
		f.StartPremier.UTC().Format(dateLayout),
		f.EndPremier.UTC().Format(dateLayout),
		int64(f.Runtime/time.Minute),
		f.Genre,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new film using the provided transaction and populates
// the generated ID and DB-default timestamps on the given Film.
func (r *FilmRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.Film) error {
	const q = `INSERT INTO films (name, start_premier, end_premier, runtime_min, genre, description)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		f.Name,
		f.StartPremier.UTC().Format(dateLayout),
		f.EndPremier.UTC().Format(dateLayout),
		int64(f.Runtime/time.Minute),
		f.Genre,
		f.Description,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT ` + filmColumns + ` FROM films WHERE id = ?`
	got, err := scanFilm(tx.QueryRowContext(ctx, sel, f.ID))
	if err != nil {
		return err
	}
	*f = *got
	return nil
}

// DeleteTx removes the film row.  Guard checks happen in the engine before
// this is called.
func (r *FilmRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM films WHERE id = ?`, id)
	return err
}

// CountSalesTx counts purchases against any session of the film.  The
// locking read blocks behind in-flight purchases so a delete decision never
// sees a stale zero.
func (r *FilmRepo) CountSalesTx(ctx context.Context, tx *sql.Tx, filmID uint64) (int, error) {
	const q = `SELECT COUNT(*)
               FROM purchases p
               JOIN sessions s ON s.id = p.session_id
               WHERE s.film_id = ?
               FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, filmID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
