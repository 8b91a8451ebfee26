package booking

import (
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// CheckPurchase evaluates every precondition of a ticket purchase against
// the session and user rows as currently locked.  The engine calls it inside
// the purchase transaction; a nil result means the three writes (capacity
// decrement, wallet debit, purchase insert) may proceed.
//
// Preconditions, in evaluation order:
//   - count > 0
//   - the session has not started (now < session start)
//   - count ≤ remaining hall size
//   - count * price ≤ wallet balance
func CheckPurchase(s *model.Session, u *model.User, count int32, now time.Time) error {
	if count <= 0 {
		return newErr(KindInvalidInput, "purchase", 0, "count", "select one or more tickets")
	}
	if !s.StartsAt.After(now) {
		return newErr(KindSessionAlreadyStarted, "session", s.ID, "start",
			"this session has already started")
	}
	if count > s.HallSize {
		return newErr(KindInsufficientInventory, "session", s.ID, "count", "not enough tickets left")
	}
	if PurchaseTotal(s, count) > u.WalletCents {
		return newErr(KindInsufficientFunds, "user", u.ID, "wallet", "not enough money in wallet")
	}
	return nil
}

// PurchaseTotal is the cost in cents of count tickets for the session.
func PurchaseTotal(s *model.Session, count int32) int64 {
	return int64(count) * s.PriceCents
}
