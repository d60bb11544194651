package ports

import (
	"context"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// ReviewAuditLog stores the append-only history of status decisions.
type ReviewAuditLog interface {
	Append(ctx context.Context, record domain.ReviewRecord) error
	ListByIncident(ctx context.Context, incidentID string) ([]domain.ReviewRecord, error)
}

// EventPublisher announces incident lifecycle events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// IdempotencyStore guards incident submissions keyed by a client-chosen key.
type IdempotencyStore interface {
	// Reserve claims key. When the key is already claimed it returns false and
	// the stored incident id, which is empty while the first request is in flight.
	Reserve(ctx context.Context, key string) (bool, string, error)
	Complete(ctx context.Context, key, incidentID string) error
	Release(ctx context.Context, key string) error
}

// Routing keys for EventPublisher.
const (
	EventIncidentReported = "incident.reported"
	EventIncidentReviewed = "incident.reviewed"
)
