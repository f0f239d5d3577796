package service

import (
	"context"
	"fmt"
	"time"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

// ChecklistService generates, stores, and shares onboarding checklists.
type ChecklistService struct {
	checklists ports.ChecklistRepository
	generator  ports.ChecklistGenerator
}

func NewChecklistService(checklists ports.ChecklistRepository, generator ports.ChecklistGenerator) *ChecklistService {
	return &ChecklistService{checklists: checklists, generator: generator}
}

func (s *ChecklistService) Generate(ctx context.Context, in ports.GenerateChecklistInput) (*domain.Checklist, error) {
	items, err := s.generator.Generate(ctx, in.Role, in.Department)
	if err != nil {
		return nil, fmt.Errorf("generate checklist: %w", err)
	}

	now := time.Now().UTC()
	checklist := &domain.Checklist{
		Slug:       newID(8),
		UserID:     in.UserID,
		Role:       in.Role,
		Department: in.Department,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.checklists.Create(ctx, checklist)
}

func (s *ChecklistService) GetByID(ctx context.Context, id string) (*domain.Checklist, error) {
	return s.checklists.FindByID(ctx, id)
}

func (s *ChecklistService) GetBySlug(ctx context.Context, slug string) (*domain.Checklist, error) {
	return s.checklists.FindBySlug(ctx, slug)
}

func (s *ChecklistService) ListForUser(ctx context.Context, userID string) ([]*domain.Checklist, error) {
	return s.checklists.ListByUser(ctx, userID)
}

func (s *ChecklistService) Assign(ctx context.Context, checklistID, assigneeID string) (*domain.Checklist, error) {
	checklist, err := s.checklists.FindByID(ctx, checklistID)
	if err != nil {
		return nil, err
	}

	checklist.AssignedTo = assigneeID
	checklist.UpdatedAt = time.Now().UTC()
	return s.checklists.Update(ctx, checklist)
}
