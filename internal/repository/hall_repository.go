package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// HallRepo provides methods to create, retrieve and mutate halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, name, capacity, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (*model.Hall, error) {
	var h model.Hall
	if err := row.Scan(&h.ID, &h.Name, &h.Capacity, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when no
// row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

// GetForUpdateTx reads the hall with a row lock held until the caller's
// transaction ends.  Session placements and hall edits serialize on this
// lock, so two transactions can never validate against the same snapshot of
// the hall's schedule.
func (r *HallRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ? FOR UPDATE`
	h, err := scanHall(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

// List returns all halls ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// NameTakenTx reports whether a hall other than excludeID already uses the
// name.  Comparison is case-insensitive.
func (r *HallRepo) NameTakenTx(ctx context.Context, tx *sql.Tx, name string, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM halls WHERE LOWER(name) = LOWER(?) AND id <> ? LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, name, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new hall and populates the generated ID and timestamps.
func (r *HallRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.Hall) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO halls (name, capacity) VALUES (?, ?)`, h.Name, h.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	const sel = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	got, err := scanHall(tx.QueryRowContext(ctx, sel, h.ID))
	if err != nil {
		return err
	}
	*h = *got
	return nil
}

// UpdateTx rewrites the hall's name and capacity.
func (r *HallRepo) UpdateTx(ctx context.Context, tx *sql.Tx, h *model.Hall) error {
	const q = `UPDATE halls SET name = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, h.Name, h.Capacity, h.ID)
	return err
}

// DeleteTx removes the hall row.
func (r *HallRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	return err
}

// ResizeSessionsTx sets hall_size on every session of the hall.  This
// overwrites decrements from earlier sales; the engine only reaches it for
// halls that never sold a ticket.
func (r *HallRepo) ResizeSessionsTx(ctx context.Context, tx *sql.Tx, hallID uint64, size int32) error {
	_, err := tx.ExecContext(ctx, `UPDATE sessions SET hall_size = ? WHERE hall_id = ?`, size, hallID)
	return err
}

// CountSalesTx counts every purchase ever made against a session of the
// hall.  The locking read blocks behind an in-flight purchase in the hall,
// so the count a guard decision is based on can never miss a sale that is
// about to commit.
func (r *HallRepo) CountSalesTx(ctx context.Context, tx *sql.Tx, hallID uint64) (int, error) {
	const q = `SELECT COUNT(*)
               FROM purchases p
               JOIN sessions s ON s.id = p.session_id
               WHERE s.hall_id = ?
               FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, hallID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountActiveSalesTx counts purchases against sessions of the hall that end
// after the given instant.
func (r *HallRepo) CountActiveSalesTx(ctx context.Context, tx *sql.Tx, hallID uint64, now time.Time) (int, error) {
	const q = `SELECT COUNT(*)
               FROM purchases p
               JOIN sessions s ON s.id = p.session_id
               WHERE s.hall_id = ? AND s.ends_at > ?
               FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, hallID, now.UTC()).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
