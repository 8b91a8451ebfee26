package model

import "time"

// Purchase is an immutable record of a completed ticket sale.  It is created
// inside the same transaction that decrements the session's HallSize and
// debits the buyer's wallet; it is never updated afterwards and no delete
// endpoint exists for it.
//
// Fields:
//  ID         – primary key identifier.
//  SessionID  – session the tickets were bought for.
//  UserID     – buyer.
//  Count      – number of tickets; always positive.
//  TotalCents – Count * session price at purchase time.
//  CreatedAt  – purchase timestamp.
type Purchase struct {
	ID         uint64    // purchases.id
	SessionID  uint64    // purchases.session_id
	UserID     uint64    // purchases.user_id
	Count      int32     // purchases.count
	TotalCents int64     // purchases.total_cents
	CreatedAt  time.Time // purchases.created_at
}
