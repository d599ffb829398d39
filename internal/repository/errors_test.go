package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateCreateError(t *testing.T) {
	dup := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	assert.ErrorIs(t, translateCreateError(dup), ErrDuplicateID)

	wrapped := fmt.Errorf("inserting row: %w", dup)
	assert.ErrorIs(t, translateCreateError(wrapped), ErrDuplicateID)

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), translateCreateError(other))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, translateCreateError(plain))
}
