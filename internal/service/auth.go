package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"transitdocs/internal/auth"
	"transitdocs/internal/model"
	"transitdocs/internal/repository"
	"transitdocs/internal/session"
)

// SignUpInput is the registration form.
type SignUpInput struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=6"`
	FullName   string `validate:"required"`
	Role       model.Role
	Department string
}

// SignInResult is a fresh access token plus the resolved profile.
type SignInResult struct {
	Token   string         `json:"access_token"`
	Profile *model.Profile `json:"profile"`
}

// AuthService handles registration, sign-in, and session teardown.
type AuthService interface {
	// SignUp registers a new account. The role is fixed here and never changes.
	SignUp(ctx context.Context, in SignUpInput) (*model.Profile, error)

	// SignIn verifies credentials, issues a token, and registers the session.
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)

	// SignOut tears the session down; the token stops being honored immediately.
	SignOut(ctx context.Context, token string) error

	// Profile resolves the stored profile for a signed-in user.
	Profile(ctx context.Context, userID string) (*model.Profile, error)
}

type authService struct {
	profiles repository.ProfileRepository
	sessions session.Store
	secret   []byte
	ttl      time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(profiles repository.ProfileRepository, sessions session.Store, secret []byte, ttl time.Duration) AuthService {
	return &authService{
		profiles: profiles,
		sessions: sessions,
		secret:   secret,
		ttl:      ttl,
	}
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.Profile, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	_, err := s.profiles.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		UserID:       uuid.New().String(),
		FullName:     in.FullName,
		Email:        in.Email,
		Role:         in.Role,
		Department:   in.Department,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	return s.profiles.Create(ctx, profile)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.secret, profile.UserID, profile.Role, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.sessions.Save(ctx, token, profile.UserID, s.ttl); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	return &SignInResult{Token: token, Profile: profile}, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	return s.sessions.Delete(ctx, token)
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}
