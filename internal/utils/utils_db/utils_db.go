package utils_db

import (
	"github.com/jmoiron/sqlx"
)

func FetchOne[T any](db *sqlx.DB, query string, args ...interface{}) (T, error) {
	var result T
	err := db.Get(&result, query, args...)
	return result, err
}

func FetchAll[T any](db *sqlx.DB, query string, args ...interface{}) ([]T, error) {
	results := make([]T, 0)
	err := db.Select(&results, query, args...)
	return results, err
}

func Count(db *sqlx.DB, query string, args ...interface{}) (int, error) {
	var count int
	err := db.Get(&count, query, args...)
	return count, err
}

func Exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	count, err := Count(db, query, args...)
	return count > 0, err
}
