// Package repository contains the MySQL data access layer.  Each entity has
// its own repo with plain methods for read paths and Tx-variant methods that
// participate in a caller-owned transaction; SQLStore composes the Tx
// variants into the booking.Store interface consumed by the engine.
//
// The sentinel errors below let handlers distinguish missing rows from
// infrastructure failures on the read paths.  Inside SQLStore the same
// conditions surface as booking errors of kind NotFound, per the Store
// contract.
package repository

import "errors"

// ErrFilmNotFound indicates that a film was not located in the DB.
var ErrFilmNotFound = errors.New("film not found")

// ErrHallNotFound indicates that a hall was not located in the DB.
var ErrHallNotFound = errors.New("hall not found")

// ErrSessionNotFound indicates that a session was not located in the DB.
var ErrSessionNotFound = errors.New("session not found")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering with an already-used email.
var ErrEmailExists = errors.New("email already exists")
