package ports

import (
	"context"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// ChecklistRepository defines persistence for generated checklists.
type ChecklistRepository interface {
	Create(ctx context.Context, checklist *domain.Checklist) (*domain.Checklist, error)
	FindByID(ctx context.Context, id string) (*domain.Checklist, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Checklist, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Checklist, error)
	Update(ctx context.Context, checklist *domain.Checklist) (*domain.Checklist, error)
}
