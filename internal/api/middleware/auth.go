package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/api/metrics"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

// bearerPrefix is matched exactly: case-sensitive scheme, single space.
const bearerPrefix = "Bearer "

// bearerToken extracts the token from an Authorization header value.
// Returns "" when the scheme is wrong or the token is empty.
func bearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// Authenticate verifies the bearer token and attaches the resolved user and
// session to the request context. Requests without a valid token never reach
// the downstream handler.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				metrics.AuthAttemptsTotal.WithLabelValues("missing_token").Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "authorization header required",
					"code":  "AUTH_REQUIRED",
				})
			}

			token := bearerToken(header)
			if token == "" {
				metrics.AuthAttemptsTotal.WithLabelValues("malformed_token").Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "authorization header must be a bearer token",
					"code":  "AUTH_REQUIRED",
				})
			}

			user, session, err := auth.VerifyToken(c.Request().Context(), token)
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues("invalid_token").Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":  "invalid or expired token",
					"code":   "INVALID_TOKEN",
					"detail": err.Error(),
				})
			}

			metrics.AuthAttemptsTotal.WithLabelValues("ok").Inc()
			SetAccess(c, &Access{User: user, Session: session})
			return next(c)
		}
	}
}

// OptionalAuth attaches identity when a valid bearer token is present and
// silently proceeds anonymously otherwise. This is the one deliberate
// fail-open path; downstream handlers must re-check identity before relying
// on it.
func OptionalAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return next(c)
			}

			user, session, err := auth.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return next(c)
			}

			SetAccess(c, &Access{User: user, Session: session})
			return next(c)
		}
	}
}
