package service

import (
	"errors"
	"fmt"
	"testing"

	"shareit/internal/database"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr(fmt.Errorf("wrapped: %w", database.ErrNotFound), "item", 5)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "item with id 5 not found", err.Error())

	boom := errors.New("disk full")
	err = notFoundOr(boom, "item", 5)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.As(err, &nf))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("ann@example.com"))
	assert.Error(t, validateEmail("Ann <ann@example.com>"))
	assert.Error(t, validateEmail("ann"))
	assert.Error(t, validateEmail(""))
}
