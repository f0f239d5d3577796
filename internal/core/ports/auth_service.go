package ports

import (
	"context"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// LoginInput carries the credentials and client metadata for one login.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       domain.Role
	Department string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns the signed token alongside the user and the session the
	// token names.
	Login(ctx context.Context, in LoginInput) (string, *domain.User, *domain.Session, error)
	// Logout revokes the session; already-revoked sessions are not an error.
	Logout(ctx context.Context, sessionID string) error
	// VerifyToken checks the token's signature and expiry and resolves the
	// user and session it names. It does not re-check session liveness; that
	// is the session-validation middleware's job.
	VerifyToken(ctx context.Context, token string) (*domain.User, *domain.Session, error)
}
