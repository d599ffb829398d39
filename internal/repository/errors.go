package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateID is returned when a create collides with an existing id.
var ErrDuplicateID = errors.New("repository: duplicate id")

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

func translateCreateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateID
	}
	return err
}
