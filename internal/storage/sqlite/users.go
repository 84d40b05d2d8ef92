package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"artistplan/internal/models"
	"artistplan/internal/storage"
)

// CreateUser persists a new user. Fails if the email is already taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, photo_url, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PhotoURL, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var photo sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, photo_url, password_hash, created_at FROM users WHERE "+where,
		arg,
	).Scan(&user.ID, &user.Name, &user.Email, &photo, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.PhotoURL = photo.String
	return user, nil
}
