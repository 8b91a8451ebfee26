package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

func TestCanDeleteFilm(t *testing.T) {
	today := time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC)
	film := func(end time.Time) *model.Film {
		return &model.Film{ID: 1, EndPremier: end}
	}

	tests := []struct {
		name    string
		end     time.Time
		sold    int
		blocked bool
	}{
		{"no sales, running premiere", today.AddDate(0, 0, 10), 0, false},
		{"sales, premiere still running", today.AddDate(0, 0, 10), 3, true},
		{"sales, premiere ended yesterday", today.AddDate(0, 0, -1), 3, false},
		{"sales, premiere ends today", today, 3, false},
		{"no sales, premiere ended", today.AddDate(0, 0, -1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeleteFilm(film(tt.end), tt.sold, today)
			if tt.blocked {
				assert.Equal(t, KindLockedBySales, KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanDeleteHall(t *testing.T) {
	h := &model.Hall{ID: 2, Name: "Red", Capacity: 50}
	assert.NoError(t, CanDeleteHall(h, 0))
	assert.Equal(t, KindLockedBySales, KindOf(CanDeleteHall(h, 1)))
}

func TestCanDeleteSession(t *testing.T) {
	now := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	session := func(end time.Time) *model.Session {
		return &model.Session{ID: 3, EndsAt: end}
	}

	tests := []struct {
		name    string
		end     time.Time
		sold    int
		blocked bool
	}{
		{"no sales, upcoming", now.Add(2 * time.Hour), 0, false},
		{"sales, upcoming", now.Add(2 * time.Hour), 4, true},
		{"sales, already ended", now.Add(-time.Hour), 4, false},
		{"sales, ends exactly now", now, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeleteSession(session(tt.end), tt.sold, now)
			if tt.blocked {
				assert.Equal(t, KindLockedBySales, KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanEditHall(t *testing.T) {
	h := &model.Hall{ID: 2, Name: "Red", Capacity: 50}

	assert.NoError(t, CanEditHall(h, false, 0))
	assert.Equal(t, KindDuplicateResource, KindOf(CanEditHall(h, true, 0)))
	assert.Equal(t, KindLockedBySales, KindOf(CanEditHall(h, false, 1)))
	// Name collision is reported before the sales freeze.
	assert.Equal(t, KindDuplicateResource, KindOf(CanEditHall(h, true, 1)))
}

func TestCanEditSession(t *testing.T) {
	s := &model.Session{ID: 3, EndsAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.NoError(t, CanEditSession(s, 0))
	// Edits stay blocked even for sessions long since over.
	assert.Equal(t, KindLockedBySales, KindOf(CanEditSession(s, 1)))
}

func TestGuardsAreIdempotent(t *testing.T) {
	now := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	s := &model.Session{ID: 3, EndsAt: now.Add(time.Hour)}
	first := CanDeleteSession(s, 2, now)
	second := CanDeleteSession(s, 2, now)
	assert.Equal(t, KindOf(first), KindOf(second))
	assert.Equal(t, first.Error(), second.Error())
}
