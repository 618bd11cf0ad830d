package ports

import (
	"context"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// AuditRecorder accepts audit events for asynchronous persistence. Record
// must not block the request path beyond queue admission.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService persists a single audit event. Invoked by the dispatcher
// workers, never directly from a request handler.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepository defines persistence for audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
