package domain

import "time"

// AuditAction identifies the security-relevant operation being recorded.
type AuditAction string

const (
	AuditLoginSucceeded    AuditAction = "login_succeeded"
	AuditLoginFailed       AuditAction = "login_failed"
	AuditUserRegistered    AuditAction = "user_registered"
	AuditUserDeleted       AuditAction = "user_deleted"
	AuditPostDeleted       AuditAction = "post_deleted"
	AuditOwnershipRejected AuditAction = "ownership_rejected"
)

// AuditEvent is an append-only record of an auth decision. Events for the
// same username are processed in order; events for different usernames may
// interleave.
type AuditEvent struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Username  string      `json:"username"`
	Detail    string      `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
