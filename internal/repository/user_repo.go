package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auth_service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

const userColumns = `id, name, email, password_hash, role, password_changed_at, password_reset_token, password_reset_expires, created_at`

// DB is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	SetResetToken(ctx context.Context, id int, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id int) error
	FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.PasswordChangedAt, &user.PasswordResetToken, &user.PasswordResetExpires, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (name, email, password_hash, role, created_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email, password hash included
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAll retrieves every user, newest first
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

// Delete removes a user by ID. Returns pgx.ErrNoRows if no such user.
func (r *userRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdatePassword sets a new password hash, bumps password_changed_at and
// clears any outstanding reset token in one statement. The changed-at
// timestamp is backdated one second so a token issued immediately after
// the change is not treated as stale.
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	sql := `UPDATE users
            SET password_hash = $2,
                password_changed_at = now() - interval '1 second',
                password_reset_token = NULL,
                password_reset_expires = NULL
            WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetResetToken stores a hashed reset token and its expiry on the user
func (r *userRepository) SetResetToken(ctx context.Context, id int, tokenHash string, expires time.Time) error {
	sql := `UPDATE users SET password_reset_token = $2, password_reset_expires = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id, tokenHash, expires); err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return nil
}

// ClearResetToken removes the reset token and expiry from the user
func (r *userRepository) ClearResetToken(ctx context.Context, id int) error {
	sql := `UPDATE users SET password_reset_token = NULL, password_reset_expires = NULL WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

// FindByResetToken retrieves the user holding the given hashed reset token,
// provided the token has not expired yet
func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token = $1 AND password_reset_expires > now()`
	user, err := scanUser(r.db.QueryRow(ctx, sql, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Invalid or expired token
		}
		return nil, fmt.Errorf("failed to find user by reset token: %w", err)
	}
	return user, nil
}
