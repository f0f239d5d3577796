package ports

import (
	"context"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// GenerateChecklistInput describes the checklist to generate.
type GenerateChecklistInput struct {
	UserID     string
	Role       string
	Department string
}

// ChecklistGenerator produces onboarding items for a role/department pair.
// The production implementation calls an LLM collaborator; a deterministic
// template generator backs it when no collaborator is configured.
type ChecklistGenerator interface {
	Generate(ctx context.Context, role, department string) ([]domain.ChecklistItem, error)
}

type ChecklistService interface {
	Generate(ctx context.Context, in GenerateChecklistInput) (*domain.Checklist, error)
	GetByID(ctx context.Context, id string) (*domain.Checklist, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Checklist, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Checklist, error)
	// Assign points an existing checklist at another user.
	Assign(ctx context.Context, checklistID, assigneeID string) (*domain.Checklist, error)
}
