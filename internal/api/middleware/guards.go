package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/api/metrics"
	"github.com/onboardhq/onboarding-system/internal/core/authz"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

// auditRecorder receives an access_denied event for every guard denial.
// Nil until wired; recording is skipped when no recorder is configured.
var auditRecorder ports.AuditRecorder

// SetAuditRecorder wires the recorder guard denials are reported to. Call
// once at router assembly, before the server accepts requests.
func SetAuditRecorder(r ports.AuditRecorder) {
	auditRecorder = r
}

// Logic selects how RequirePermission combines multiple permissions.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// ResourceGetter fetches a resource from the request before an access check.
// Returning (nil, nil) means the resource does not exist.
type ResourceGetter func(c echo.Context) (authz.Resource, error)

// ResourceQuery fetches a resource by id. Returning (nil, nil) means the
// resource does not exist; an error means the lookup itself failed.
type ResourceQuery func(ctx context.Context, id string) (authz.Resource, error)

// requireIdentity enforces the shared guard precondition: no attached
// identity means immediate denial regardless of the specific check. The
// bool reports whether a response was already written.
func requireIdentity(c echo.Context) (*Access, bool) {
	acc := GetAccess(c)
	if acc == nil || acc.User == nil {
		_ = deny(c, http.StatusUnauthorized, "AUTH_REQUIRED", echo.Map{
			"error": "authentication required",
		})
		return nil, true
	}
	return acc, false
}

// deny writes a structured denial, counts it, and records the outcome on
// the audit trail.
func deny(c echo.Context, status int, code string, body echo.Map) error {
	metrics.AuthzDenialsTotal.WithLabelValues(code).Inc()

	if auditRecorder != nil {
		event := domain.AuditEvent{
			Action:    domain.AuditAccessDenied,
			Detail:    code,
			IP:        c.RealIP(),
			UserAgent: c.Request().UserAgent(),
			CreatedAt: time.Now().UTC(),
		}
		if acc := GetAccess(c); acc != nil && acc.User != nil {
			event.UserID = acc.User.ID
		}
		auditRecorder.Record(event)
	}

	body["code"] = code
	return c.JSON(status, body)
}

// RequirePermission evaluates the user's role against the given permissions.
// With LogicAnd every permission is required; with LogicOr (the default for
// an empty Logic) any one suffices. An empty permission list is a wiring
// mistake, not a grant; the factory panics before any request runs.
func RequirePermission(perms []authz.Permission, logic Logic) echo.MiddlewareFunc {
	if len(perms) == 0 {
		panic("middleware: RequirePermission requires at least one permission")
	}
	if logic == "" {
		logic = LogicOr
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			granted := logic == LogicAnd
			for _, p := range perms {
				has := authz.HasPermission(acc.User.Role, p)
				if logic == LogicAnd {
					granted = granted && has
				} else if has {
					granted = true
					break
				}
			}

			if !granted {
				return deny(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", echo.Map{
					"error":    "insufficient permissions",
					"required": perms,
					"logic":    logic,
					"userRole": acc.User.Role,
				})
			}
			return next(c)
		}
	}
}

// RequireResourceAccess applies an access policy to a resource. When a getter
// is supplied it runs first; a getter failure is an internal error, never an
// access denial. Approved resources are attached to the access context under
// resourceType for downstream reuse.
func RequireResourceAccess(resourceType string, access authz.AccessType, getter ResourceGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			var resource authz.Resource
			if getter != nil {
				res, err := getter(c)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{
						"error":  "failed to load resource",
						"code":   "RESOURCE_ACCESS_ERROR",
						"detail": err.Error(),
					})
				}
				resource = res
			}

			if !authz.CanAccessResource(acc.User, resourceType, resource, access) {
				return deny(c, http.StatusForbidden, "ACCESS_DENIED", echo.Map{
					"error":        "access denied",
					"resourceType": resourceType,
					"accessType":   access,
				})
			}

			if resource != nil {
				acc.SetResource(resourceType, resource)
			}
			return next(c)
		}
	}
}

// userActionPermissions maps requireUserAccess actions to the elevated
// permission that grants them on arbitrary users.
var userActionPermissions = map[string]authz.Permission{
	"view":        authz.PermUsersReadAll,
	"edit":        authz.PermUsersUpdateAll,
	"delete":      authz.PermUsersDelete,
	"assign_role": authz.PermUsersAssignRole,
}

// RequireUserAccess guards operations on the user record named by the :id
// route parameter. Self-access is permitted for view and edit only; delete
// and assign_role always require the elevated permission, identity match or
// not.
func RequireUserAccess(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			required, known := userActionPermissions[action]
			if !known {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error":  "invalid user access action",
					"code":   "INVALID_ACTION",
					"action": action,
				})
			}

			targetID := c.Param("id")
			if targetID != "" && targetID == acc.User.ID && (action == "view" || action == "edit") {
				return next(c)
			}

			if !authz.HasPermission(acc.User.Role, required) {
				return deny(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", echo.Map{
					"error":    "insufficient permissions",
					"required": []authz.Permission{required},
					"action":   action,
					"userRole": acc.User.Role,
				})
			}
			return next(c)
		}
	}
}

// RequireRoleAssignmentPermission validates a role-change request body: the
// target role must be present and known, and the assigner's role must be
// allowed to grant it.
func RequireRoleAssignmentPermission() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			body, err := peekBody(c)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "invalid request body",
					"code":  "INVALID_ROLE",
				})
			}

			raw, _ := body["role"].(string)
			target := domain.Role(raw)
			if raw == "" || !domain.ValidRole(target) {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error":      "a valid role is required",
					"code":       "INVALID_ROLE",
					"validRoles": domain.Roles(),
				})
			}

			if !authz.CanAssignRole(acc.User.Role, target) {
				return deny(c, http.StatusForbidden, "ROLE_ASSIGNMENT_DENIED", echo.Map{
					"error":        "cannot assign this role",
					"assignerRole": acc.User.Role,
					"targetRole":   target,
				})
			}
			return next(c)
		}
	}
}

// RequireDepartmentAccess scopes the request to the caller's own department
// when enabled. Admin always bypasses. The target department is resolved from
// the route param, then body, then query, in that precedence.
func RequireDepartmentAccess(requireSameDepartment bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			if acc.User.Role == domain.RoleAdmin || !requireSameDepartment {
				return next(c)
			}

			target := c.Param("department")
			if target == "" {
				if body, err := peekBody(c); err == nil {
					target, _ = body["department"].(string)
				}
			}
			if target == "" {
				target = c.QueryParam("department")
			}

			if target != "" && target != acc.User.Department {
				return deny(c, http.StatusForbidden, "DEPARTMENT_ACCESS_DENIED", echo.Map{
					"error":            "access limited to your own department",
					"userDepartment":   acc.User.Department,
					"targetDepartment": target,
				})
			}
			return next(c)
		}
	}
}

// RequireHigherOrEqualRole compares the caller's role against a target role
// read from the given request location ("params", "body", or "query"). An
// absent target role passes; there is nothing to compare. An unknown source
// is a wiring mistake; the factory panics before any request runs.
func RequireHigherOrEqualRole(source string) echo.MiddlewareFunc {
	switch source {
	case "params", "body", "query":
	default:
		panic("middleware: RequireHigherOrEqualRole: unknown role source " + source)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			var raw string
			switch source {
			case "params":
				raw = c.Param("role")
			case "body":
				if body, err := peekBody(c); err == nil {
					raw, _ = body["role"].(string)
				}
			case "query":
				raw = c.QueryParam("role")
			}

			if raw == "" {
				return next(c)
			}

			target := domain.Role(raw)
			if !authz.IsRoleHigherOrEqual(acc.User.Role, target) {
				return deny(c, http.StatusForbidden, "INSUFFICIENT_ROLE", echo.Map{
					"error":      "requires a role of equal or higher privilege",
					"userRole":   acc.User.Role,
					"targetRole": target,
				})
			}
			return next(c)
		}
	}
}

// ResourceAccessChecker builds a guard that resolves a resource id from the
// route (generic "id" or "<resourceName>Id"), fetches the resource, applies
// the access policy, and attaches the resource under resourceName. Query
// failures surface as internal errors, never as silent denials.
func ResourceAccessChecker(resourceName string, query ResourceQuery, access authz.AccessType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, responded := requireIdentity(c)
			if responded {
				return nil
			}

			id := c.Param("id")
			if id == "" {
				id = c.Param(resourceName + "Id")
			}
			if id == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error":    "resource id is required",
					"code":     "RESOURCE_ID_REQUIRED",
					"resource": resourceName,
				})
			}

			resource, err := query(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error":    "failed to load resource",
					"code":     "RESOURCE_ACCESS_ERROR",
					"resource": resourceName,
					"detail":   err.Error(),
				})
			}
			if resource == nil {
				return c.JSON(http.StatusNotFound, echo.Map{
					"error":    "resource not found",
					"code":     "RESOURCE_NOT_FOUND",
					"resource": resourceName,
				})
			}

			if !authz.CanAccessResource(acc.User, resourceName, resource, access) {
				return deny(c, http.StatusForbidden, "ACCESS_DENIED", echo.Map{
					"error":        "access denied",
					"resourceType": resourceName,
					"accessType":   access,
				})
			}

			acc.SetResource(resourceName, resource)
			return next(c)
		}
	}
}

// RequireAuthenticated passes any request with an attached identity.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, responded := requireIdentity(c); responded {
				return nil
			}
			return next(c)
		}
	}
}

// RequireAdmin passes callers holding any admin-grade permission.
func RequireAdmin() echo.MiddlewareFunc {
	return RequirePermission([]authz.Permission{
		authz.PermSystemSettings,
		authz.PermUsersDelete,
		authz.PermUsersAssignRole,
	}, LogicOr)
}

// RequireHROrAdmin passes callers holding any HR-grade permission.
func RequireHROrAdmin() echo.MiddlewareFunc {
	return RequirePermission([]authz.Permission{
		authz.PermUsersReadAll,
		authz.PermChecklistsAssign,
		authz.PermReportsGenerate,
	}, LogicOr)
}

// peekBody reads and restores the request body so guards can inspect JSON
// fields without starving the handler's own bind. A missing or empty body
// yields an empty map.
func peekBody(c echo.Context) (map[string]any, error) {
	req := c.Request()
	if req.Body == nil {
		return map[string]any{}, nil
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}
