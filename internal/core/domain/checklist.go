package domain

import (
	"errors"
	"time"
)

var ErrChecklistNotFound = errors.New("checklist not found")

// ChecklistItem is a single onboarding task.
type ChecklistItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Done        bool   `json:"done"`
}

// Checklist is a generated onboarding checklist owned by the user who
// requested it, shareable read-only through its slug.
type Checklist struct {
	ID         string          `json:"id"`
	Slug       string          `json:"slug"`
	UserID     string          `json:"user_id"`
	Role       string          `json:"role"`
	Department string          `json:"department"`
	Items      []ChecklistItem `json:"items"`
	AssignedTo string          `json:"assigned_to,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OwnerID is the id of the user the checklist was generated for.
func (c *Checklist) OwnerID() string { return c.UserID }

// ResourceDepartment is the department the checklist is scoped to.
func (c *Checklist) ResourceDepartment() string { return c.Department }
