package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// PurchaseRepo persists purchases and serves the purchase history listings.
// Purchases are append-only: there is no update or delete path.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo constructs a PurchaseRepo with the given DB handle.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}

// PurchaseDetail is a purchase joined with session and film context for the
// history listings.
type PurchaseDetail struct {
	model.Purchase
	FilmName        string `json:"film_name"`
	HallName        string `json:"hall_name"`
	SessionStartsAt string `json:"session_starts_at"`
}

// CreateTx inserts the purchase row within the engine's transaction and
// populates the generated ID.
func (r *PurchaseRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Purchase) error {
	const q = `INSERT INTO purchases (session_id, user_id, count, total_cents, created_at)
               VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.SessionID, p.UserID, p.Count, p.TotalCents, p.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

const purchaseDetailQuery = `SELECT p.id, p.session_id, p.user_id, p.count, p.total_cents, p.created_at,
                                    f.name, h.name, s.starts_at
                             FROM purchases p
                             JOIN sessions s ON s.id = p.session_id
                             JOIN films f ON f.id = s.film_id
                             JOIN halls h ON h.id = s.hall_id`

func collectPurchaseDetails(rows *sql.Rows) ([]PurchaseDetail, error) {
	defer rows.Close()
	var out []PurchaseDetail
	for rows.Next() {
		var d PurchaseDetail
		if err := rows.Scan(&d.ID, &d.SessionID, &d.UserID, &d.Count, &d.TotalCents, &d.CreatedAt,
			&d.FilmName, &d.HallName, &d.SessionStartsAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByUser returns the user's purchases, newest first.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID uint64) ([]PurchaseDetail, error) {
	rows, err := r.db.QueryContext(ctx, purchaseDetailQuery+` WHERE p.user_id = ? ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectPurchaseDetails(rows)
}

// ListAll returns every purchase, newest first.  Admin-only.
func (r *PurchaseRepo) ListAll(ctx context.Context) ([]PurchaseDetail, error) {
	rows, err := r.db.QueryContext(ctx, purchaseDetailQuery+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	return collectPurchaseDetails(rows)
}

// TotalSpent sums everything the user has paid across all purchases.
func (r *PurchaseRepo) TotalSpent(ctx context.Context, userID uint64) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total_cents) FROM purchases WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
