package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-session-booking/internal/model"
)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 10, h, m, 0, 0, time.UTC)
}

func testFilm() *model.Film {
	return &model.Film{
		ID:           1,
		Name:         "Blade Runner",
		StartPremier: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndPremier:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Runtime:      2 * time.Hour,
		Genre:        model.GenreAction,
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical windows", at(10, 0), at(12, 0), at(10, 0), at(12, 0), true},
		{"partial overlap at tail", at(10, 0), at(12, 0), at(11, 0), at(13, 0), true},
		{"partial overlap at head", at(11, 0), at(13, 0), at(10, 0), at(12, 0), true},
		{"second inside first", at(10, 0), at(14, 0), at(11, 0), at(12, 0), true},
		{"first inside second", at(11, 0), at(12, 0), at(10, 0), at(14, 0), true},
		{"touching, first ends as second starts", at(10, 0), at(12, 0), at(12, 0), at(14, 0), false},
		{"touching, second ends as first starts", at(12, 0), at(14, 0), at(10, 0), at(12, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(12, 0), at(14, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
		})
	}
}

func TestValidatePlacement(t *testing.T) {
	film := testFilm()
	existing := []model.Session{
		{ID: 7, HallID: 1, StartsAt: at(10, 0), EndsAt: at(12, 10)},
	}

	tests := []struct {
		name     string
		p        Placement
		others   []model.Session
		wantKind Kind
	}{
		{
			name: "valid without slack",
			p:    Placement{HallID: 1, Start: at(13, 0), End: at(15, 0), PriceCents: 1500},
		},
		{
			name: "valid with full slack",
			p:    Placement{HallID: 1, Start: at(13, 0), End: at(15, 20), PriceCents: 1500},
		},
		{
			name:     "start equals end",
			p:        Placement{HallID: 1, Start: at(13, 0), End: at(13, 0), PriceCents: 1500},
			wantKind: KindInvalidInput,
		},
		{
			name:     "start after end",
			p:        Placement{HallID: 1, Start: at(15, 0), End: at(13, 0), PriceCents: 1500},
			wantKind: KindInvalidInput,
		},
		{
			name:     "shorter than runtime",
			p:        Placement{HallID: 1, Start: at(13, 0), End: at(14, 59), PriceCents: 1500},
			wantKind: KindRuntimeConstraint,
		},
		{
			name:     "one minute past slack",
			p:        Placement{HallID: 1, Start: at(13, 0), End: at(15, 21), PriceCents: 1500},
			wantKind: KindRuntimeConstraint,
		},
		{
			name: "starts before premiere window",
			p: Placement{HallID: 1,
				Start:      time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC),
				PriceCents: 1500},
			wantKind: KindRuntimeConstraint,
		},
		{
			name: "ends after premiere window",
			p: Placement{HallID: 1,
				Start:      time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 10, 1, 1, 0, 0, 0, time.UTC),
				PriceCents: 1500},
			wantKind: KindRuntimeConstraint,
		},
		{
			name: "last premiere day is allowed",
			p: Placement{HallID: 1,
				Start:      time.Date(2026, 9, 30, 19, 0, 0, 0, time.UTC),
				End:        time.Date(2026, 9, 30, 21, 0, 0, 0, time.UTC),
				PriceCents: 1500},
		},
		{
			name:     "zero price",
			p:        Placement{HallID: 1, Start: at(13, 0), End: at(15, 0)},
			wantKind: KindInvalidInput,
		},
		{
			name:     "negative price",
			p:        Placement{HallID: 1, Start: at(13, 0), End: at(15, 0), PriceCents: -100},
			wantKind: KindInvalidInput,
		},
		{
			name:     "overlaps existing session",
			p:        Placement{HallID: 1, Start: at(11, 0), End: at(13, 0), PriceCents: 1500},
			others:   existing,
			wantKind: KindSchedulingConflict,
		},
		{
			name:   "same window in another hall",
			p:      Placement{HallID: 2, Start: at(10, 0), End: at(12, 0), PriceCents: 1500},
			others: existing,
		},
		{
			name:   "back to back is allowed",
			p:      Placement{HallID: 1, Start: at(12, 10), End: at(14, 10), PriceCents: 1500},
			others: existing,
		},
		{
			name:   "update skips its own row",
			p:      Placement{HallID: 1, Start: at(10, 0), End: at(12, 0), PriceCents: 1500, ExcludeID: 7},
			others: existing,
		},
		{
			name:     "update still conflicts with other rows",
			p:        Placement{HallID: 1, Start: at(11, 0), End: at(13, 0), PriceCents: 1500, ExcludeID: 99},
			others:   existing,
			wantKind: KindSchedulingConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlacement(film, tt.p, tt.others)
			if tt.wantKind == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestValidatePlacementRuleOrder(t *testing.T) {
	// An inverted window with a bad price must report the window first.
	film := testFilm()
	err := ValidatePlacement(film, Placement{HallID: 1, Start: at(15, 0), End: at(13, 0), PriceCents: -1}, nil)
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, KindInvalidInput, be.Kind)
	assert.Equal(t, "start", be.Field)
}

func TestValidateFilm(t *testing.T) {
	base := func() *model.Film { return testFilm() }

	tests := []struct {
		name     string
		mutate   func(*model.Film)
		wantKind Kind
	}{
		{"valid", func(f *model.Film) {}, 0},
		{"empty name", func(f *model.Film) { f.Name = "" }, KindInvalidInput},
		{"runtime below minimum", func(f *model.Film) { f.Runtime = 89 * time.Minute }, KindInvalidInput},
		{"runtime at minimum", func(f *model.Film) { f.Runtime = model.MinFilmRuntime }, 0},
		{"runtime at maximum", func(f *model.Film) { f.Runtime = model.MaxFilmRuntime }, 0},
		{"runtime above maximum", func(f *model.Film) { f.Runtime = 4*time.Hour + time.Minute }, KindInvalidInput},
		{"inverted premiere window", func(f *model.Film) {
			f.StartPremier, f.EndPremier = f.EndPremier, f.StartPremier
		}, KindInvalidInput},
		{"single day premiere window", func(f *model.Film) { f.EndPremier = f.StartPremier }, 0},
		{"unknown genre", func(f *model.Film) { f.Genre = "western" }, KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base()
			tt.mutate(f)
			err := ValidateFilm(f)
			if tt.wantKind == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}
