package database

import "errors"

var (
	// ErrNotFound is returned by Open when the database does not exist and
	// Options.CreateIfNotExists is false.
	ErrNotFound = errors.New("history database not found")

	// ErrInvalidEntry is returned when an entry lacks a URL or a label.
	ErrInvalidEntry = errors.New("invalid history entry")
)
