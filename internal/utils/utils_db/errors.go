package utils_db

import (
	"errors"
	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a postgres unique
// constraint violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
