package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
)

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001":
			return ErrorClassSerialization
		case "40P01":
			return ErrorClassDeadlock
		case "55P03":
			return ErrorClassTransient
		case "23505", "23503", "23502", "23514":
			return ErrorClassPermanent
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrorClassPermanent
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	class := ClassifyError(err)
	return class == ErrorClassTransient ||
		class == ErrorClassDeadlock ||
		class == ErrorClassSerialization
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation, used to map duplicate registrations to a conflict response.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCakeNotFound          = errors.New("cake not found")
	ErrCustomizationNotFound = errors.New("customization not found")
	ErrCartNotFound          = errors.New("cart not found")
	ErrOrderNotFound         = errors.New("order not found")

	ErrCakeUnavailable = errors.New("cake not available")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidInput    = errors.New("invalid input")

	ErrEmailTaken = errors.New("email already registered")

	ErrNotificationFailed = errors.New("notification failed")
)

// IsNotFound reports whether err is any of the entity lookup misses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrCakeNotFound) ||
		errors.Is(err, ErrCustomizationNotFound) ||
		errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsValidation reports whether err is a caller-correctable business-rule
// violation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrCakeUnavailable) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrInvalidInput)
}
