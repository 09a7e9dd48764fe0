package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"shareit/internal/database"
)

// ValidationError covers bad input, broken business rules and access by the
// wrong role.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// BookingStateError reports an unknown booking state token.
type BookingStateError struct {
	Token string
}

func (e *BookingStateError) Error() string {
	return "Unknown state: " + e.Token
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// notFoundOr converts the store's ErrNotFound into a NotFoundError and wraps
// everything else.
func notFoundOr(err error, entity string, id int64) error {
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateEmail(email string) error {
	if isBlank(email) {
		return validationf("email must not be blank")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationf("invalid email %q", email)
	}
	return nil
}
