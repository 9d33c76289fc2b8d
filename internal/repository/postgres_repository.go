package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

var _ Repository = (*PostgresRepository)(nil)
