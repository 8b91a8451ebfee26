package model

import "time"

// Session represents a scheduled screening of a film in a particular hall.
// The time window [StartsAt, EndsAt) must fit the film's runtime and premiere
// window and may not overlap another session in the same hall.
//
// HallSize is the remaining sellable ticket count for this session.  It is
// initialized from Hall.Capacity when the session is created or updated and
// decremented by every sale; later hall capacity edits overwrite it wholesale
// (see booking.Engine.UpdateHall).  It is deliberately independent from
// Hall.Capacity after the snapshot so capacity changes never retroactively
// alter already-reduced availability.
//
// Fields:
//  ID         – primary key identifier.
//  FilmID     – film being screened.
//  HallID     – hall hosting the screening.
//  StartsAt   – when the session begins.
//  EndsAt     – when the session ends (strictly after StartsAt).
//  PriceCents – ticket price in cents; must be positive.
//  HallSize   – remaining sellable tickets; never negative.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Session struct {
	ID         uint64    // sessions.id
	FilmID     uint64    // sessions.film_id
	HallID     uint64    // sessions.hall_id
	StartsAt   time.Time // sessions.starts_at
	EndsAt     time.Time // sessions.ends_at
	PriceCents int64     // sessions.price_cents
	HallSize   int32     // sessions.hall_size
	CreatedAt  time.Time // sessions.created_at
	UpdatedAt  time.Time // sessions.updated_at
}
