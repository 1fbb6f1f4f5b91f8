package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
	SELECT id, email, full_name, status, role, headline, location, photo_url, is_premium, message_count, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.Status,
		&u.Role,
		&u.Headline,
		&u.Location,
		&u.PhotoURL,
		&u.IsPremium,
		&u.MessageCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfileByEmail(ctx context.Context, email string, req *user.UpdateProfileRequest) (*user.User, error) {
	updates := []string{}
	args := []interface{}{email}
	argCount := 2

	if req.FullName != "" {
		updates = append(updates, fmt.Sprintf("full_name = $%d", argCount))
		args = append(args, req.FullName)
		argCount++
	}
	if req.Status != "" {
		if !user.ValidStatus(req.Status) {
			return nil, apperr.Validation("status must be one of employed, graduated, pursuing")
		}
		updates = append(updates, fmt.Sprintf("status = $%d", argCount))
		args = append(args, req.Status)
		argCount++
	}
	if req.Headline != "" {
		updates = append(updates, fmt.Sprintf("headline = $%d", argCount))
		args = append(args, req.Headline)
		argCount++
	}
	if req.Location != "" {
		updates = append(updates, fmt.Sprintf("location = $%d", argCount))
		args = append(args, req.Location)
		argCount++
	}
	if req.PhotoURL != "" {
		updates = append(updates, fmt.Sprintf("photo_url = $%d", argCount))
		args = append(args, req.PhotoURL)
		argCount++
	}

	if len(updates) == 0 {
		return s.GetUserByEmail(ctx, email)
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE email = $1
		RETURNING id
	`, strings.Join(updates, ", "))

	var id string
	err := s.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetUserByEmail(ctx, email)
}

// SetPhotoURL is called by the upload flow after a profile photo lands
// in object storage.
func (s *UserService) SetPhotoURL(ctx context.Context, email, url string) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET photo_url = $2, updated_at = NOW() WHERE email = $1`, email, url)
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	return nil
}
