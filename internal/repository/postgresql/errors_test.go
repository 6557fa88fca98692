package postgresql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsExclusionViolation(t *testing.T) {
	pgxErr := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_double_booking"})
	assert.True(t, isExclusionViolation(pgxErr, "reservations_no_double_booking"))
	assert.True(t, isExclusionViolation(pgxErr, ""))
	assert.False(t, isExclusionViolation(pgxErr, "other_constraint"))

	pqErr := &pq.Error{Code: "23P01", Constraint: "reservations_no_double_booking"}
	assert.True(t, isExclusionViolation(pqErr, "reservations_no_double_booking"))

	assert.False(t, isExclusionViolation(errors.New("boom"), ""))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505", Constraint: "users_username_key"}, "users_username_key"))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, "users_username_key"))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23P01"}, ""))
}
