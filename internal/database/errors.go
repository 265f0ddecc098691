package database

import "errors"

var (
	// ErrNotFound means the referenced listing, user, booking or other record
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRange means start_date >= end_date.
	ErrInvalidRange = errors.New("start date must be before end date")

	// ErrInvalidGuests means guests < 1.
	ErrInvalidGuests = errors.New("guests must be at least 1")

	// ErrBookingConflict means an overlapping active booking was detected at
	// insert time.
	ErrBookingConflict = errors.New("listing is not available for the requested dates")

	// ErrInvalidTransition means the requested status edge is not allowed.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrListingInactive means the listing exists but is deactivated.
	ErrListingInactive = errors.New("listing is not active")

	// ErrDuplicate means a uniqueness rule was violated (one review per user
	// per listing, one favorite per pair, unique service name).
	ErrDuplicate = errors.New("record already exists")

	// ErrConcurrentModification means an optimistic version check failed.
	ErrConcurrentModification = errors.New("record was modified concurrently")

	// ErrNotParticipant means the user is not part of the thread.
	ErrNotParticipant = errors.New("user is not a thread participant")
)
