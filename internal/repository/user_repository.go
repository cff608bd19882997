package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studysmarter/studysmarter-api/internal/models"
)

// UserRepository manages persistence for users.
type UserRepository struct {
	db  *sqlx.DB
	obs QueryObserver
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB, obs QueryObserver) *UserRepository {
	return &UserRepository{db: db, obs: obs}
}

func (r *UserRepository) observe(operation string, start time.Time) {
	if r.obs != nil {
		r.obs.ObserveDBQuery(operation, time.Since(start))
	}
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	defer r.observe("user_find_by_id", time.Now())

	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.observe("user_find_by_email", time.Now())

	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks whether a user already uses the email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer r.observe("user_exists_by_email", time.Now())

	const query = `SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

// Create inserts a new user record, assigning ID and created_at.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.observe("user_create", time.Now())

	user.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
