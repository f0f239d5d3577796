package ports

import (
	"context"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// UpdateUserInput carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	Department *string
}

type UserService interface {
	List(ctx context.Context, department string) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// AssignRole changes the target user's role. Hierarchy checks happen in
	// the authorization middleware; the service validates the role itself.
	AssignRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}
