package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/api/middleware"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// ctxIdentity extracts the identity attached by the auth middleware and
// fast-fails before any service call. Handlers behind OptionalAuth call this
// to re-check identity instead of trusting that the middleware attached one.
func ctxIdentity(c echo.Context) (*domain.User, *domain.Session, error) {
	acc := middleware.GetAccess(c)
	if acc == nil || acc.User == nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return acc.User, acc.Session, nil
}
