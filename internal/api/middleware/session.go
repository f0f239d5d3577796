package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/api/metrics"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

// ValidateSession re-checks session liveness against the store on every
// request. The bearer token's own validity does not guarantee the session it
// names has not been revoked since issuance, so this runs after Authenticate.
// Requests without an attached session pass through untouched.
func ValidateSession(store ports.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc := GetAccess(c)
			if acc == nil || acc.Session == nil {
				metrics.SessionValidationsTotal.WithLabelValues("skipped").Inc()
				return next(c)
			}

			session, err := store.FindByID(c.Request().Context(), acc.Session.ID)
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				metrics.SessionValidationsTotal.WithLabelValues("expired").Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "session expired or revoked",
					"code":  "SESSION_EXPIRED",
				})
			case err != nil:
				// Store failure is not a deny decision; surface it distinctly
				// so monitoring can tell degradation from misuse. Still 401:
				// the request cannot be trusted.
				metrics.SessionValidationsTotal.WithLabelValues("error").Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":  "session validation failed",
					"code":   "SESSION_VALIDATION_FAILED",
					"detail": err.Error(),
				})
			}

			if !session.Valid(time.Now().UTC()) {
				metrics.SessionValidationsTotal.WithLabelValues("expired").Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "session expired or revoked",
					"code":  "SESSION_EXPIRED",
				})
			}

			metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
			acc.Session = session
			return next(c)
		}
	}
}
