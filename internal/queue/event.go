// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketsSoldEvent is published after a purchase transaction commits.  It
// contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type TicketsSoldEvent struct {
	PurchaseID uint64 `json:"purchase_id"`
	UserID     uint64 `json:"user_id"`
	SessionID  uint64 `json:"session_id"`
	FilmName   string `json:"film_name"`
	HallName   string `json:"hall_name"`
	StartsAt   string `json:"starts_at"`
	Count      int32  `json:"count"`
	TotalCents int64  `json:"total_cents"`
	BoughtAt   string `json:"bought_at"`
}
