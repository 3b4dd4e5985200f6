package repository

import (
	"context"

	"transitdocs/internal/model"
)

// ProfileRepository defines data access for account profiles.
type ProfileRepository interface {
	// Create inserts a new profile. The email must be unique.
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)

	// FindByID returns a profile by user ID.
	FindByID(ctx context.Context, userID string) (*model.Profile, error)

	// FindByEmail returns a profile by email.
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)

	// ListByRole returns all profiles with the given role, ordered by full name.
	ListByRole(ctx context.Context, role model.Role) ([]model.Profile, error)
}
