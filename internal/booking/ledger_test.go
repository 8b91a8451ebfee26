package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

func TestCheckPurchase(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	session := func() *model.Session {
		return &model.Session{
			ID:         3,
			StartsAt:   now.Add(2 * time.Hour),
			EndsAt:     now.Add(4 * time.Hour),
			PriceCents: 1200,
			HallSize:   10,
		}
	}
	user := func() *model.User {
		return &model.User{ID: 5, WalletCents: 10_000}
	}

	tests := []struct {
		name     string
		mutateS  func(*model.Session)
		mutateU  func(*model.User)
		count    int32
		wantKind Kind
	}{
		{"valid purchase", nil, nil, 2, 0},
		{"entire remaining capacity", nil, nil, 8, 0},
		{"exact wallet balance", func(s *model.Session) { s.PriceCents = 5000 }, nil, 2, 0},
		{"zero count", nil, nil, 0, KindInvalidInput},
		{"negative count", nil, nil, -3, KindInvalidInput},
		{"session already started", func(s *model.Session) { s.StartsAt = now.Add(-time.Minute) }, nil, 1, KindSessionAlreadyStarted},
		{"session starts exactly now", func(s *model.Session) { s.StartsAt = now }, nil, 1, KindSessionAlreadyStarted},
		{"more tickets than capacity", nil, nil, 11, KindInsufficientInventory},
		{"sold out", func(s *model.Session) { s.HallSize = 0 }, nil, 1, KindInsufficientInventory},
		{"wallet too small", nil, func(u *model.User) { u.WalletCents = 1199 }, 1, KindInsufficientFunds},
		{"wallet covers one but not two", nil, func(u *model.User) { u.WalletCents = 1200 }, 2, KindInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, u := session(), user()
			if tt.mutateS != nil {
				tt.mutateS(s)
			}
			if tt.mutateU != nil {
				tt.mutateU(u)
			}
			err := CheckPurchase(s, u, tt.count, now)
			if tt.wantKind == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestCheckPurchaseStartedBeatsInventory(t *testing.T) {
	// A started, sold-out session must report the start, not the inventory.
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	s := &model.Session{ID: 3, StartsAt: now.Add(-time.Hour), PriceCents: 1200, HallSize: 0}
	u := &model.User{ID: 5, WalletCents: 0}
	err := CheckPurchase(s, u, 1, now)
	require.Error(t, err)
	assert.Equal(t, KindSessionAlreadyStarted, KindOf(err))
}

func TestPurchaseTotal(t *testing.T) {
	s := &model.Session{PriceCents: 1250}
	assert.Equal(t, int64(0), PurchaseTotal(s, 0))
	assert.Equal(t, int64(1250), PurchaseTotal(s, 1))
	assert.Equal(t, int64(6250), PurchaseTotal(s, 5))
}
