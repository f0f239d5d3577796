package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/core/authz"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// accessKey is the single echo context key under which the request-scoped
// access context lives.
const accessKey = "access"

// Access is the typed per-request identity context. It is created by the
// authentication middleware, enriched by resource guards, and discarded at
// request end. Fields stay nil until resolved.
type Access struct {
	User      *domain.User
	Session   *domain.Session
	resources map[string]authz.Resource
}

// SetResource stores a fetched resource for downstream reuse.
func (a *Access) SetResource(name string, res authz.Resource) {
	if a.resources == nil {
		a.resources = make(map[string]authz.Resource, 1)
	}
	a.resources[name] = res
}

// Resource returns a previously attached resource, or nil.
func (a *Access) Resource(name string) authz.Resource {
	return a.resources[name]
}

// SetAccess attaches the access context to the request.
func SetAccess(c echo.Context, acc *Access) {
	c.Set(accessKey, acc)
}

// GetAccess returns the request's access context, or nil when no
// authentication middleware attached one.
func GetAccess(c echo.Context) *Access {
	acc, _ := c.Get(accessKey).(*Access)
	return acc
}
