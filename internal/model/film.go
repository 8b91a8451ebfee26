package model

import "time"

// Genre enumerates the genres a film may be registered under.  The set is
// closed; CreateFilm requests carrying any other value are rejected before
// touching the database.
type Genre string

const (
	GenreHorror    Genre = "horror"
	GenreComedy    Genre = "comedy"
	GenreAction    Genre = "action"
	GenreThriller  Genre = "thriller"
	GenreDetective Genre = "detective"
	GenreDrama     Genre = "drama"
)

// ValidGenre reports whether g is one of the known genres.
func ValidGenre(g Genre) bool {
	switch g {
	case GenreHorror, GenreComedy, GenreAction, GenreThriller, GenreDetective, GenreDrama:
		return true
	}
	return false
}

// Runtime bounds every film must respect.  Sessions are additionally
// constrained to the film runtime plus a cleaning slack (see booking).
const (
	MinFilmRuntime = 90 * time.Minute
	MaxFilmRuntime = 4 * time.Hour
)

// Film represents a movie that can be scheduled during its premiere window.
// StartPremier and EndPremier are calendar dates (stored at midnight UTC);
// sessions may only be placed on days inside [StartPremier, EndPremier].
//
// Fields:
//  ID           – primary key identifier.
//  Name         – film title; duplicates with identical window/runtime/genre are rejected.
//  StartPremier – first day the film may be screened.
//  EndPremier   – last day the film may be screened (inclusive).
//  Runtime      – film length; must lie within [MinFilmRuntime, MaxFilmRuntime].
//  Genre        – one of the Genre constants.
//  Description  – optional free text.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Film struct {
	ID           uint64        // films.id
	Name         string        // films.name
	StartPremier time.Time     // films.start_premier (DATE)
	EndPremier   time.Time     // films.end_premier (DATE)
	Runtime      time.Duration // films.runtime_min (stored as minutes)
	Genre        Genre         // films.genre
	Description  *string       // films.description (nullable)
	CreatedAt    time.Time     // films.created_at
	UpdatedAt    time.Time     // films.updated_at
}
