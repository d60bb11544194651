package ports

import (
	"context"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// Classifier is the external classification collaborator.
type Classifier interface {
	Classify(ctx context.Context, incident *domain.Incident) (domain.Classification, error)
}

// EnrichmentService fills classifier fields on a stored incident.
type EnrichmentService interface {
	Enrich(ctx context.Context, incidentID string) error
}

// EnrichmentQueue hands incidents to background enrichment without blocking.
type EnrichmentQueue interface {
	// Submit reports false when the incident could not be queued.
	Submit(incidentID string) bool
}
