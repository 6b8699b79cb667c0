package repository

import "errors"

var (
	// ErrNotFound record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate record with the same natural key already exists
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidData record fields do not satisfy storage constraints
	ErrInvalidData = errors.New("invalid data")
)
