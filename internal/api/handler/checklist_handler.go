package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/api/middleware"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

type ChecklistHandler struct {
	checklistService ports.ChecklistService
}

func NewChecklistHandler(checklistService ports.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistService: checklistService}
}

type generateChecklistRequest struct {
	Role       string `json:"role" validate:"required"`
	Department string `json:"department" validate:"required"`
}

type assignChecklistRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
	Department string `json:"department"`
}

// Generate creates an onboarding checklist for a role/department pair and
// stores it under a shareable slug.
//
// @Summary      Generate a checklist
// @Tags         checklists
// @Accept       json
// @Produce      json
// @Param        body  body      generateChecklistRequest  true  "Role and department"
// @Success      201   {object}  domain.Checklist
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /checklists [post]
func (h *ChecklistHandler) Generate(c echo.Context) error {
	user, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req generateChecklistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	checklist, err := h.checklistService.Generate(c.Request().Context(), ports.GenerateChecklistInput{
		UserID:     user.ID,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, checklist)
}

// List returns the caller's own checklists.
//
// @Summary      List own checklists
// @Tags         checklists
// @Produce      json
// @Success      200  {array}   domain.Checklist
// @Failure      401  {object}  map[string]string
// @Router       /checklists [get]
func (h *ChecklistHandler) List(c echo.Context) error {
	user, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	checklists, err := h.checklistService.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklists)
}

// Get returns one checklist. The resource-access guard has already fetched
// and attached it, so this is a plain read from the access context.
//
// @Summary      Get a checklist
// @Tags         checklists
// @Produce      json
// @Param        checklistId  path      string  true  "Checklist id"
// @Success      200          {object}  domain.Checklist
// @Failure      403          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /checklists/{checklistId} [get]
func (h *ChecklistHandler) Get(c echo.Context) error {
	acc := middleware.GetAccess(c)
	if acc != nil {
		if checklist, ok := acc.Resource("checklist").(*domain.Checklist); ok {
			return c.JSON(http.StatusOK, checklist)
		}
	}

	checklist, err := h.checklistService.GetByID(c.Request().Context(), c.Param("checklistId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklist)
}

// Assign points a checklist at another user.
//
// @Summary      Assign a checklist
// @Tags         checklists
// @Accept       json
// @Produce      json
// @Param        checklistId  path      string                  true  "Checklist id"
// @Param        body         body      assignChecklistRequest  true  "Assignee"
// @Success      200          {object}  domain.Checklist
// @Failure      403          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /checklists/{checklistId}/assign [post]
func (h *ChecklistHandler) Assign(c echo.Context) error {
	var req assignChecklistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	checklist, err := h.checklistService.Assign(c.Request().Context(), c.Param("checklistId"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklist)
}

// GetShared returns a checklist by its share slug. The route sits behind
// optional auth: anyone holding the slug may read it.
//
// @Summary      Read a shared checklist
// @Tags         checklists
// @Produce      json
// @Param        slug  path      string  true  "Share slug"
// @Success      200   {object}  domain.Checklist
// @Failure      404   {object}  map[string]string
// @Router       /shared/{slug} [get]
func (h *ChecklistHandler) GetShared(c echo.Context) error {
	checklist, err := h.checklistService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklist)
}
