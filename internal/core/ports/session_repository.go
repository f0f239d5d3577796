package ports

import (
	"context"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// SessionRepository is the session store. The middleware layer only reads it;
// writes happen on login and logout.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByID returns domain.ErrSessionNotFound when no record exists.
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	// Deactivate marks the session revoked. Deactivating an unknown or
	// already-inactive session is a no-op.
	Deactivate(ctx context.Context, id string) error
}
