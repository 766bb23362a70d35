package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates an insert violated a uniqueness constraint.
	ErrDuplicate = errors.New("repository: duplicate")
)
