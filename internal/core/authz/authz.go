// Package authz holds the static permission model: the role→permission
// table, the role hierarchy, and the resource-access policies. Everything
// here is a pure lookup over tables that never change after process start,
// so every middleware and service shares identical semantics and can be
// unit-tested without HTTP or database context.
package authz

import (
	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// Permission is a fine-grained capability tag, distinct from role.
type Permission string

const (
	PermUsersRead       Permission = "users:read"
	PermUsersReadAll    Permission = "users:read_all"
	PermUsersUpdateAll  Permission = "users:update_all"
	PermUsersDelete     Permission = "users:delete"
	PermUsersAssignRole Permission = "users:assign_roles"

	PermChecklistsCreate  Permission = "checklists:create"
	PermChecklistsRead    Permission = "checklists:read"
	PermChecklistsReadAll Permission = "checklists:read_all"
	PermChecklistsAssign  Permission = "checklists:assign"
	PermChecklistsDelete  Permission = "checklists:delete"

	PermReportsGenerate Permission = "reports:generate"
	PermSystemSettings  Permission = "system:settings"
)

// AccessType selects the policy canAccessResource applies.
type AccessType string

const (
	AccessAuthenticated  AccessType = "AUTHENTICATED"
	AccessOwnerOnly      AccessType = "OWNER_ONLY"
	AccessSameDepartment AccessType = "SAME_DEPARTMENT"
)

// rolePermissions maps each role to its full permission set. Sets are
// supersets as privilege increases.
var rolePermissions = map[domain.Role]map[Permission]struct{}{
	domain.RoleEmployee: permSet(
		PermUsersRead,
		PermChecklistsCreate,
		PermChecklistsRead,
	),
	domain.RoleHRManager: permSet(
		PermUsersRead,
		PermChecklistsCreate,
		PermChecklistsRead,
		PermUsersReadAll,
		PermUsersUpdateAll,
		PermChecklistsReadAll,
		PermChecklistsAssign,
		PermReportsGenerate,
	),
	domain.RoleAdmin: permSet(
		PermUsersRead,
		PermChecklistsCreate,
		PermChecklistsRead,
		PermUsersReadAll,
		PermUsersUpdateAll,
		PermChecklistsReadAll,
		PermChecklistsAssign,
		PermReportsGenerate,
		PermUsersDelete,
		PermUsersAssignRole,
		PermChecklistsDelete,
		PermSystemSettings,
	),
}

// roleLevel is the strict total order over roles. Higher is more privileged;
// admin is maximal.
var roleLevel = map[domain.Role]int{
	domain.RoleEmployee:  1,
	domain.RoleHRManager: 2,
	domain.RoleAdmin:     3,
}

// ownerBypass grants read access to non-owners of a resource type. Admin gets
// its bypass through these permissions like everyone else.
var ownerBypass = map[string]Permission{
	"user":      PermUsersReadAll,
	"checklist": PermChecklistsReadAll,
}

func permSet(perms ...Permission) map[Permission]struct{} {
	s := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// HasPermission reports whether the static table maps role to a set
// containing perm. Unknown roles never panic; they simply hold nothing.
func HasPermission(role domain.Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[perm]
	return ok
}

// IsRoleHigherOrEqual compares positions in the role hierarchy. False when
// either role is unknown.
func IsRoleHigherOrEqual(role, target domain.Role) bool {
	rl, ok := roleLevel[role]
	if !ok {
		return false
	}
	tl, ok := roleLevel[target]
	if !ok {
		return false
	}
	return rl >= tl
}

// CanAssignRole reports whether assigner may grant target to someone else:
// strictly higher than the target role, or admin, who may assign any role
// including admin itself.
func CanAssignRole(assigner, target domain.Role) bool {
	if assigner == domain.RoleAdmin {
		return ValidTarget(target)
	}
	al, ok := roleLevel[assigner]
	if !ok {
		return false
	}
	tl, ok := roleLevel[target]
	if !ok {
		return false
	}
	return al > tl
}

// ValidTarget reports whether target is a member of the known role set.
func ValidTarget(target domain.Role) bool {
	_, ok := roleLevel[target]
	return ok
}

// Resource is any domain entity an access decision is made against. The
// model never fetches resources itself; callers supply them.
type Resource interface {
	// OwnerID is the id of the user the resource belongs to.
	OwnerID() string
	// ResourceDepartment is the department the resource is scoped to,
	// empty when unscoped.
	ResourceDepartment() string
}

// CanAccessResource applies the access policy for resourceType. A nil
// resource fails closed for every policy except AUTHENTICATED, and unknown
// access types always deny.
func CanAccessResource(user *domain.User, resourceType string, resource Resource, access AccessType) bool {
	if user == nil {
		return false
	}

	switch access {
	case AccessAuthenticated:
		return true

	case AccessOwnerOnly:
		if bypass, ok := ownerBypass[resourceType]; ok && HasPermission(user.Role, bypass) {
			return true
		}
		return resource != nil && resource.OwnerID() == user.ID

	case AccessSameDepartment:
		if user.Role == domain.RoleAdmin {
			return true
		}
		return resource != nil && resource.ResourceDepartment() == user.Department
	}

	return false
}
