package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrorClassPermanent},
		{"serialization failure", &pq.Error{Code: "40001"}, ErrorClassSerialization},
		{"deadlock", &pq.Error{Code: "40P01"}, ErrorClassDeadlock},
		{"lock not available", &pq.Error{Code: "55P03"}, ErrorClassTransient},
		{"unique violation", &pq.Error{Code: "23505"}, ErrorClassPermanent},
		{"no rows", sql.ErrNoRows, ErrorClassPermanent},
		{"wrapped serialization", fmt.Errorf("commit: %w", &pq.Error{Code: "40001"}), ErrorClassSerialization},
		{"plain error", errors.New("oops"), ErrorClassPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(&pq.Error{Code: "40P01"}))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(ErrCartNotFound))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create customer: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, IsNotFound(ErrCakeNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("add to cart: %w", ErrCakeNotFound)))
	assert.False(t, IsNotFound(ErrCakeUnavailable))

	assert.True(t, IsValidation(ErrEmptyCart))
	assert.True(t, IsValidation(ErrCakeUnavailable))
	assert.True(t, IsValidation(fmt.Errorf("%w: email required", ErrInvalidInput)))
	assert.False(t, IsValidation(ErrOrderNotFound))
	assert.False(t, IsValidation(ErrNotificationFailed))
}
