package domain

import "time"

// AuditAction identifies what an audit event records.
type AuditAction string

const (
	AuditLogin        AuditAction = "login"
	AuditLoginFailed  AuditAction = "login_failed"
	AuditLogout       AuditAction = "logout"
	AuditAccessDenied AuditAction = "access_denied"
)

// AuditEvent is an append-only record of an authentication or
// authorization outcome.
type AuditEvent struct {
	UserID    string      `json:"user_id"`
	Action    AuditAction `json:"action"`
	Detail    string      `json:"detail,omitempty"`
	IP        string      `json:"ip,omitempty"`
	UserAgent string      `json:"user_agent,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
