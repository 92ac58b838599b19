package common

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

const pqUniqueViolation = "23505"

// UniqueViolation reports whether err is a unique constraint violation on the named constraint.
func UniqueViolation(err error, constraint string) bool {
	return pqCode(err, pqUniqueViolation, constraint)
}

func pqCode(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == code && pqErr.Constraint == constraint {
			return true
		}
	}

	return false
}
