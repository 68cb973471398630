package service

import (
	"context"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/security"
)

// RBACAuthorizer answers capability questions over a resolved codename set.
type RBACAuthorizer interface {
	HasPermission(codenames []string, required string) bool
	Can(codenames []string, action, resource string) bool
}

// PermissionResolver turns session claims into the flat codename set of the
// session's group. Resolution failures must be treated as "deny" by callers,
// never as "allow".
type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, claims *security.Claims) ([]string, error)
	InvalidateGroup(ctx context.Context, groupID uint) error
}

// IntentExecutor runs a confirmed intent against one resource type.
type IntentExecutor interface {
	ExecuteIntent(ctx context.Context, intent *domain.Intent) (any, error)
}
