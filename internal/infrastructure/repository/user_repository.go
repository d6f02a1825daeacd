package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"authgate/internal/domain/user"
	"authgate/internal/infrastructure/database"
)

const userColumns = `id, username, email, name, avatar_url, email_is_verified, created_at, updated_at`

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates the SQL-backed credential store gateway.
func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) VerifyCredentials(ctx context.Context, email, password string) (*user.User, error) {
	query := r.db.Rebind(
		`SELECT ` + userColumns + `, password FROM users WHERE email = ?`)

	u := &user.User{}
	var hash string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.Name, &u.AvatarURL, &u.EmailVerified,
		&u.CreatedAt, &u.UpdatedAt, &hash)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// Wrong password and unknown email collapse into the same result.
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := r.db.Rebind(
		`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Name, &u.AvatarURL, &u.EmailVerified,
		&u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`)

	var count int
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:            uuid.New().String(),
		Username:      params.Username,
		Email:         params.Email,
		Name:          params.Name,
		AvatarURL:     params.AvatarURL,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	query := r.db.Rebind(
		`INSERT INTO users (id, username, email, name, password, avatar_url, email_is_verified, activation_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.Name, string(hash), u.AvatarURL,
		u.EmailVerified, params.ActivationToken, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *userRepository) Activate(ctx context.Context, token string) error {
	query := r.db.Rebind(
		`UPDATE users SET email_is_verified = TRUE, activation_token = NULL, updated_at = ?
		 WHERE activation_token = ?`)

	result, err := r.db.ExecContext(ctx, query, time.Now(), token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return user.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}
