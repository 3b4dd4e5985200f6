// Package service holds the use cases of the portal: authentication, document
// upload and review, the assignment ledger, and the role-scoped read views.
package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"transitdocs/internal/model"
)

// Sentinel errors shared by the services. Handlers translate these into
// HTTP status codes and the standard error envelope.
var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("document not found")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrAlreadyDecided     = errors.New("document is no longer pending")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// validate checks struct tags on request inputs before any write is attempted.
var validate = validator.New()

// Actor is the resolved identity performing an operation. It is built from the
// verified session by the HTTP layer and threaded explicitly through every
// service call; nothing below the handlers reads ambient auth state.
type Actor struct {
	UserID string
	Role   model.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }
