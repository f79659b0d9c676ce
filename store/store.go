// Package store provides manual-SQL data access for partners, members and
// visits over sqlite or postgres.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store provides manual-SQL data access.
type Store struct {
	DB *DB
}

func New(db *DB) *Store {
	return &Store{DB: db}
}

func (s *Store) ensureDB() (*sqlx.DB, error) {
	if s == nil || s.DB == nil || s.DB.DB == nil {
		return nil, fmt.Errorf("nil db")
	}
	return s.DB.DB, nil
}

// IsNotFound reports whether err is a row-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// errNoRows is what mutations return when the target row does not exist, so
// callers can treat updates and lookups uniformly through IsNotFound.
func errNoRows() error {
	return sql.ErrNoRows
}
