package scheduler

import "errors"

var (
	// ErrInvalidInput covers missing or unparseable date/time/guest input.
	ErrInvalidInput = errors.New("invalid or missing date, time or guest count")

	// ErrTableConflict means the requested slot overlaps an existing
	// non-cancelled booking on the same table.
	ErrTableConflict = errors.New("Table is already booked for that time slot.")

	// ErrNotFound means the booking (or table) id does not exist, or the
	// booking does not belong to the requesting user.
	ErrNotFound = errors.New("booking not found")
)
