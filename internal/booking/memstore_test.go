package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

// memStore is an in-memory Store for engine tests.  A single mutex held for
// the whole InTx body stands in for MySQL's row locks: transactions are
// fully serialized, which is the guarantee the engine relies on.  Writes go
// to the live maps directly; engine transactions either finish or the test
// fails, so rollback is not modelled.
type memStore struct {
	mu        sync.Mutex
	films     map[uint64]model.Film
	halls     map[uint64]model.Hall
	sessions  map[uint64]model.Session
	users     map[uint64]model.User
	purchases map[uint64]model.Purchase
	nextID    uint64
}

func newMemStore() *memStore {
	return &memStore{
		films:     map[uint64]model.Film{},
		halls:     map[uint64]model.Hall{},
		sessions:  map[uint64]model.Session{},
		users:     map[uint64]model.User{},
		purchases: map[uint64]model.Purchase{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{s: m})
}

// addUser seeds a user outside any transaction.
func (m *memStore) addUser(wallet int64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.users[id] = model.User{ID: id, Role: model.RoleCustomer, WalletCents: wallet}
	return id
}

type memTx struct {
	s *memStore
}

func (t *memTx) FilmByID(ctx context.Context, id uint64) (*model.Film, error) {
	f, ok := t.s.films[id]
	if !ok {
		return nil, newErr(KindNotFound, "film", id, "", "film not found")
	}
	return &f, nil
}

func (t *memTx) FilmExists(ctx context.Context, f *model.Film) (bool, error) {
	for _, o := range t.s.films {
		if strings.EqualFold(o.Name, f.Name) &&
			o.StartPremier.Equal(f.StartPremier) && o.EndPremier.Equal(f.EndPremier) &&
			o.Runtime == f.Runtime && o.Genre == f.Genre {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertFilm(ctx context.Context, f *model.Film) error {
	f.ID = t.s.id()
	t.s.films[f.ID] = *f
	return nil
}

func (t *memTx) DeleteFilm(ctx context.Context, id uint64) error {
	delete(t.s.films, id)
	return nil
}

func (t *memTx) CountFilmSales(ctx context.Context, filmID uint64) (int, error) {
	n := 0
	for _, p := range t.s.purchases {
		if t.s.sessions[p.SessionID].FilmID == filmID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) HallByID(ctx context.Context, id uint64) (*model.Hall, error) {
	h, ok := t.s.halls[id]
	if !ok {
		return nil, newErr(KindNotFound, "hall", id, "", "hall not found")
	}
	return &h, nil
}

func (t *memTx) HallForUpdate(ctx context.Context, id uint64) (*model.Hall, error) {
	return t.HallByID(ctx, id)
}

func (t *memTx) HallNameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	for _, h := range t.s.halls {
		if h.ID != excludeID && strings.EqualFold(h.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertHall(ctx context.Context, h *model.Hall) error {
	h.ID = t.s.id()
	t.s.halls[h.ID] = *h
	return nil
}

func (t *memTx) UpdateHall(ctx context.Context, h *model.Hall) error {
	if _, ok := t.s.halls[h.ID]; !ok {
		return newErr(KindNotFound, "hall", h.ID, "", "hall not found")
	}
	t.s.halls[h.ID] = *h
	return nil
}

func (t *memTx) DeleteHall(ctx context.Context, id uint64) error {
	delete(t.s.halls, id)
	return nil
}

func (t *memTx) ResizeHallSessions(ctx context.Context, hallID uint64, size int32) error {
	for id, s := range t.s.sessions {
		if s.HallID == hallID {
			s.HallSize = size
			t.s.sessions[id] = s
		}
	}
	return nil
}

func (t *memTx) CountHallSales(ctx context.Context, hallID uint64) (int, error) {
	n := 0
	for _, p := range t.s.purchases {
		if t.s.sessions[p.SessionID].HallID == hallID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) CountActiveHallSales(ctx context.Context, hallID uint64, now time.Time) (int, error) {
	n := 0
	for _, p := range t.s.purchases {
		s := t.s.sessions[p.SessionID]
		if s.HallID == hallID && s.EndsAt.After(now) {
			n++
		}
	}
	return n, nil
}

func (t *memTx) SessionByID(ctx context.Context, id uint64) (*model.Session, error) {
	s, ok := t.s.sessions[id]
	if !ok {
		return nil, newErr(KindNotFound, "session", id, "", "session not found")
	}
	return &s, nil
}

func (t *memTx) SessionForUpdate(ctx context.Context, id uint64) (*model.Session, error) {
	return t.SessionByID(ctx, id)
}

func (t *memTx) SessionsInHall(ctx context.Context, hallID uint64) ([]model.Session, error) {
	var out []model.Session
	for _, s := range t.s.sessions {
		if s.HallID == hallID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (t *memTx) InsertSession(ctx context.Context, s *model.Session) error {
	s.ID = t.s.id()
	t.s.sessions[s.ID] = *s
	return nil
}

func (t *memTx) UpdateSession(ctx context.Context, s *model.Session) error {
	if _, ok := t.s.sessions[s.ID]; !ok {
		return newErr(KindNotFound, "session", s.ID, "", "session not found")
	}
	t.s.sessions[s.ID] = *s
	return nil
}

func (t *memTx) DeleteSession(ctx context.Context, id uint64) error {
	delete(t.s.sessions, id)
	return nil
}

func (t *memTx) SetSessionCapacity(ctx context.Context, id uint64, size int32) error {
	s, ok := t.s.sessions[id]
	if !ok {
		return newErr(KindNotFound, "session", id, "", "session not found")
	}
	s.HallSize = size
	t.s.sessions[id] = s
	return nil
}

func (t *memTx) CountSessionSales(ctx context.Context, sessionID uint64) (int, error) {
	n := 0
	for _, p := range t.s.purchases {
		if p.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) UserForUpdate(ctx context.Context, id uint64) (*model.User, error) {
	u, ok := t.s.users[id]
	if !ok {
		return nil, newErr(KindNotFound, "user", id, "", "user not found")
	}
	return &u, nil
}

func (t *memTx) SetUserWallet(ctx context.Context, id uint64, cents int64) error {
	u, ok := t.s.users[id]
	if !ok {
		return newErr(KindNotFound, "user", id, "", "user not found")
	}
	u.WalletCents = cents
	t.s.users[id] = u
	return nil
}

func (t *memTx) InsertPurchase(ctx context.Context, p *model.Purchase) error {
	p.ID = t.s.id()
	t.s.purchases[p.ID] = *p
	return nil
}
