package store

import "errors"

// ErrNotFound is returned when no record with the given id exists.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("storage unavailable")
