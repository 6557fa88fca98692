package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// constraintViolation trả về tên constraint nếu err là lỗi Postgres với SQLSTATE code.
// Driver pgx trả về *pgconn.PgError, lib/pq trả về *pq.Error; chấp nhận cả hai.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr.Constraint, true
	}
	return "", false
}

func isUniqueViolation(err error, constraint string) bool {
	name, ok := constraintViolation(err, codeUniqueViolation)
	return ok && (constraint == "" || name == constraint)
}

func isExclusionViolation(err error, constraint string) bool {
	name, ok := constraintViolation(err, codeExclusionViolation)
	return ok && (constraint == "" || name == constraint)
}
