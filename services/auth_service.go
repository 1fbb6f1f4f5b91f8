package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/user"
)

type AuthService struct {
	db *pgxpool.Pool
}

func NewAuthService(db *pgxpool.Pool) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Signup(ctx context.Context, req *user.SignupRequest) (*user.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		FullName: req.FullName,
		Status:   req.Status,
		Role:     user.RoleUser,
	}

	query := `
	INSERT INTO users (id, email, password, full_name, status, role)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, email, full_name, status, role, is_premium, message_count, created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query, u.ID, u.Email, string(hashed), u.FullName, u.Status, u.Role).Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.Status,
		&u.Role,
		&u.IsPremium,
		&u.MessageCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		appErr := apperr.FromDB(err, "user not found")
		if appErr.Code == apperr.CodeDuplicate {
			return nil, apperr.Duplicate("An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", appErr)
	}

	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (string, *user.User, error) {
	query := `
	SELECT id, email, password, full_name, status, role, headline, location, photo_url, is_premium, message_count, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	u := &user.User{}
	var hashed string
	err := s.db.QueryRow(ctx, query, req.Email).Scan(
		&u.ID,
		&u.Email,
		&hashed,
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
			return "", nil, apperr.Unauthorized("Invalid email or password")
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(req.Password)); err != nil {
		return "", nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, u, nil
}

// ForgotPassword resets the password directly for a known email. The
// client gates this behind its own email-OTP screen; the API itself
// only checks the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req *user.ForgotPasswordRequest) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.db.Exec(ctx, `UPDATE users SET password = $2, updated_at = NOW() WHERE email = $1`, req.Email, string(hashed))
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("No account found for this email")
	}
	return nil
}

func (s *AuthService) issueToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
