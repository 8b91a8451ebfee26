package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// testClock is a fixed now inside the premiere window of testFilm.
var testClock = time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewEngineAt(store, func() time.Time { return testClock }), store
}

// seedSession creates a film, a hall of the given capacity and one session
// starting at start, returning the session.
func seedSession(t *testing.T, e *Engine, capacity int32, start time.Time, price int64) *model.Session {
	t.Helper()
	ctx := context.Background()
	f := testFilm()
	f.ID = 0
	require.NoError(t, e.CreateFilm(ctx, f))
	h := &model.Hall{Name: "Main", Capacity: capacity}
	require.NoError(t, e.CreateHall(ctx, h))
	s, err := e.CreateSession(ctx, SessionCommand{
		FilmID:     f.ID,
		HallID:     h.ID,
		StartsAt:   start,
		EndsAt:     start.Add(2 * time.Hour),
		PriceCents: price,
	})
	require.NoError(t, err)
	return s
}

func TestEngineCreateFilmRejectsDuplicate(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	f := testFilm()
	f.ID = 0
	require.NoError(t, e.CreateFilm(ctx, f))

	dup := testFilm()
	dup.ID = 0
	dup.Name = "BLADE RUNNER" // same film, different case
	err := e.CreateFilm(ctx, dup)
	assert.Equal(t, KindDuplicateResource, KindOf(err))

	other := testFilm()
	other.ID = 0
	other.Runtime = 3 * time.Hour // different identity
	assert.NoError(t, e.CreateFilm(ctx, other))
}

func TestEngineCreateSessionSnapshotsHallSize(t *testing.T) {
	e, store := newTestEngine(t)
	s := seedSession(t, e, 80, testClock.Add(3*time.Hour), 1500)
	assert.Equal(t, int32(80), s.HallSize)
	assert.Equal(t, int32(80), store.sessions[s.ID].HallSize)
}

func TestEngineCreateSessionRejectsOverlap(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 80, testClock.Add(3*time.Hour), 1500)

	_, err := e.CreateSession(ctx, SessionCommand{
		FilmID:     s.FilmID,
		HallID:     s.HallID,
		StartsAt:   s.StartsAt.Add(time.Hour),
		EndsAt:     s.StartsAt.Add(3 * time.Hour),
		PriceCents: 1500,
	})
	assert.Equal(t, KindSchedulingConflict, KindOf(err))

	// Back to back in the same hall is fine.
	_, err = e.CreateSession(ctx, SessionCommand{
		FilmID:     s.FilmID,
		HallID:     s.HallID,
		StartsAt:   s.EndsAt,
		EndsAt:     s.EndsAt.Add(2 * time.Hour),
		PriceCents: 1500,
	})
	assert.NoError(t, err)
}

func TestEngineCreateSessionConcurrentSameSlot(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	f := testFilm()
	f.ID = 0
	require.NoError(t, e.CreateFilm(ctx, f))
	h := &model.Hall{Name: "Main", Capacity: 80}
	require.NoError(t, e.CreateHall(ctx, h))

	// Ten writers race for the same two-hour slot in one hall.  The hall
	// row lock serializes them, so exactly one placement can win.
	start := testClock.Add(3 * time.Hour)
	const writers = 10
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.CreateSession(context.Background(), SessionCommand{
				FilmID:     f.ID,
				HallID:     h.ID,
				StartsAt:   start,
				EndsAt:     start.Add(2 * time.Hour),
				PriceCents: 1500,
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.Equal(t, KindSchedulingConflict, KindOf(err))
		}
	}
	assert.Equal(t, 1, won)
	assert.Len(t, store.sessions, 1)
}

func TestEnginePurchase(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 10, testClock.Add(3*time.Hour), 1200)
	userID := store.addUser(10_000)

	p, err := e.Purchase(ctx, userID, s.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), p.TotalCents)
	assert.Equal(t, int32(3), p.Count)

	assert.Equal(t, int32(7), store.sessions[s.ID].HallSize)
	assert.Equal(t, int64(6400), store.users[userID].WalletCents)
	assert.Len(t, store.purchases, 1)
}

func TestEnginePurchaseFailuresLeaveStateUntouched(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 5, testClock.Add(3*time.Hour), 1200)
	rich := store.addUser(100_000)
	poor := store.addUser(1000)

	tests := []struct {
		name     string
		userID   uint64
		count    int32
		wantKind Kind
	}{
		{"zero count", rich, 0, KindInvalidInput},
		{"too many tickets", rich, 6, KindInsufficientInventory},
		{"wallet too small", poor, 1, KindInsufficientFunds},
		{"unknown session", rich, 1, KindNotFound},
		{"unknown user", 9999, 1, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionID := s.ID
			if tt.name == "unknown session" {
				sessionID = 9999
			}
			_, err := e.Purchase(ctx, tt.userID, sessionID, tt.count)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}

	assert.Equal(t, int32(5), store.sessions[s.ID].HallSize)
	assert.Equal(t, int64(100_000), store.users[rich].WalletCents)
	assert.Equal(t, int64(1000), store.users[poor].WalletCents)
	assert.Empty(t, store.purchases)
}

func TestEnginePurchaseStartedSession(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	// Starts one hour before the engine clock.
	s := seedSession(t, e, 5, testClock.Add(-time.Hour), 1200)
	userID := store.addUser(10_000)

	_, err := e.Purchase(ctx, userID, s.ID, 1)
	assert.Equal(t, KindSessionAlreadyStarted, KindOf(err))
}

func TestEnginePurchaseConcurrent(t *testing.T) {
	e, store := newTestEngine(t)
	s := seedSession(t, e, 30, testClock.Add(3*time.Hour), 1000)

	// 20 buyers, each with money for exactly 2 tickets, all want 2.
	// Only 15 pairs fit in the 30 seats.
	const buyers = 20
	ids := make([]uint64, buyers)
	for i := range ids {
		ids[i] = store.addUser(2000)
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Purchase(context.Background(), ids[i], s.ID, 2)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.Equal(t, KindInsufficientInventory, KindOf(err))
		}
	}
	assert.Equal(t, 15, won)
	assert.Equal(t, int32(0), store.sessions[s.ID].HallSize)
	assert.Len(t, store.purchases, won)
	for _, u := range store.users {
		assert.GreaterOrEqual(t, u.WalletCents, int64(0))
	}
}

func TestEnginePurchaseConcurrentSharedWallet(t *testing.T) {
	e, store := newTestEngine(t)
	s := seedSession(t, e, 100, testClock.Add(3*time.Hour), 1000)
	// One wallet holding money for 3 tickets, 6 goroutines buying 1 each.
	userID := store.addUser(3000)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Purchase(context.Background(), userID, s.ID, 1)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.Equal(t, KindInsufficientFunds, KindOf(err))
		}
	}
	assert.Equal(t, 3, won)
	assert.Equal(t, int64(0), store.users[userID].WalletCents)
	assert.Equal(t, int32(97), store.sessions[s.ID].HallSize)
}

func TestEngineUpdateSessionFrozenAfterSale(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 10, testClock.Add(3*time.Hour), 1200)
	userID := store.addUser(10_000)

	cmd := SessionCommand{
		ID:         s.ID,
		FilmID:     s.FilmID,
		HallID:     s.HallID,
		StartsAt:   s.StartsAt.Add(24 * time.Hour),
		EndsAt:     s.EndsAt.Add(24 * time.Hour),
		PriceCents: 1300,
	}

	// Before any sale the move is fine; moving back afterwards is not.
	_, err := e.UpdateSession(ctx, cmd)
	require.NoError(t, err)

	_, err = e.Purchase(ctx, userID, s.ID, 1)
	require.NoError(t, err)

	cmd.StartsAt = s.StartsAt
	cmd.EndsAt = s.EndsAt
	_, err = e.UpdateSession(ctx, cmd)
	assert.Equal(t, KindLockedBySales, KindOf(err))
}

func TestEngineUpdateSessionResnapshotsHallSize(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 50, testClock.Add(3*time.Hour), 1200)

	// Grow the hall, then rewrite the session: hall_size follows the hall.
	h := store.halls[s.HallID]
	h.Capacity = 60
	require.NoError(t, e.UpdateHall(ctx, &h))

	upd, err := e.UpdateSession(ctx, SessionCommand{
		ID:         s.ID,
		FilmID:     s.FilmID,
		HallID:     s.HallID,
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
		PriceCents: 1400,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(60), upd.HallSize)
}

func TestEngineUpdateHallCascadesAndFreezes(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 50, testClock.Add(3*time.Hour), 1200)
	userID := store.addUser(10_000)

	h := store.halls[s.HallID]
	h.Capacity = 40
	require.NoError(t, e.UpdateHall(ctx, &h))
	assert.Equal(t, int32(40), store.sessions[s.ID].HallSize)

	_, err := e.Purchase(ctx, userID, s.ID, 2)
	require.NoError(t, err)

	// One sale freezes the hall for good, even after the session ends.
	h.Capacity = 45
	err = e.UpdateHall(ctx, &h)
	assert.Equal(t, KindLockedBySales, KindOf(err))
}

func TestEngineCreateHallRejectsDuplicateName(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.CreateHall(ctx, &model.Hall{Name: "Red", Capacity: 30}))
	err := e.CreateHall(ctx, &model.Hall{Name: "red", Capacity: 40})
	assert.Equal(t, KindDuplicateResource, KindOf(err))
}

func TestEngineDeleteGuards(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	s := seedSession(t, e, 10, testClock.Add(3*time.Hour), 1200)
	userID := store.addUser(10_000)

	_, err := e.Purchase(ctx, userID, s.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, KindLockedBySales, KindOf(e.DeleteSession(ctx, s.ID)))
	assert.Equal(t, KindLockedBySales, KindOf(e.DeleteHall(ctx, s.HallID)))
	assert.Equal(t, KindLockedBySales, KindOf(e.DeleteFilm(ctx, s.FilmID)))

	// A session with no sales deletes cleanly.
	s2, err := e.CreateSession(ctx, SessionCommand{
		FilmID:     s.FilmID,
		HallID:     s.HallID,
		StartsAt:   s.EndsAt,
		EndsAt:     s.EndsAt.Add(2 * time.Hour),
		PriceCents: 1200,
	})
	require.NoError(t, err)
	assert.NoError(t, e.DeleteSession(ctx, s2.ID))
}
