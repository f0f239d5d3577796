package ports

import (
	"context"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous recording. Implementations
// must never block the request path.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
