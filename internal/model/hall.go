package model

import "time"

// Hall represents a screening hall.  Hall names are unique case-insensitively
// across the whole installation.  Capacity is the number of tickets a freshly
// scheduled session in this hall can sell; each session takes a snapshot of it
// into its own HallSize counter at create/update time.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique hall name (case-insensitive).
//  Capacity  – number of sellable tickets per session; must be positive.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hall struct {
	ID        uint64    // halls.id
	Name      string    // halls.name
	Capacity  int32     // halls.capacity
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}
