package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rongwang/finance-tracker-server/internal/models"
)

const userColumns = `id, username, password, avatar_path, created_at, updated_at`

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// CreateUser checks for an existing username before inserting. The unique
// index on username closes the window between the check and the insert.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	existing, err := r.FindUserByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateUsername
	}

	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (username, password, avatar_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err = r.db.QueryRowxContext(ctx, query,
		user.Username, user.Password, user.AvatarPath, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUser writes the mutable profile fields
func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = r.now()

	query := `UPDATE users SET avatar_path = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, user.AvatarPath, user.UpdatedAt, user.ID)
	return err
}
