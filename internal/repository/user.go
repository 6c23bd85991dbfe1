package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// UserRepository handles administrative accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user with an already-hashed password.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, hashed_password, is_active, is_superuser)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`, u.Username, u.Email, u.HashedPassword, u.IsActive, u.IsSuperuser)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// List returns a page of accounts, newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, email, hashed_password, is_active, is_superuser, created_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsSuperuser, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetByUsername returns a user for login checks.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, hashed_password, is_active, is_superuser, created_at
		FROM users WHERE username=$1
	`, username)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsSuperuser, &u.CreatedAt); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// GetByID returns a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, hashed_password, is_active, is_superuser, created_at
		FROM users WHERE id=$1
	`, id)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsSuperuser, &u.CreatedAt); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
