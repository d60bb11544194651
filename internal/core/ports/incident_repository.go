package ports

import (
	"context"
	"time"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// ListIncidentsFilter carries the dashboard query parameters.
// Empty fields are not filtered on.
type ListIncidentsFilter struct {
	Statuses []domain.IncidentStatus
	Severity string
	Category string
	Site     string
}

// StatusUpdate is a single attributed status decision.
type StatusUpdate struct {
	IncidentID string
	To         domain.IncidentStatus
	// From lists the statuses the incident must currently be in.
	From       []domain.IncidentStatus
	ReviewedBy uint
	ReviewedAt time.Time
}

// IncidentRepository defines persistence operations for incidents.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	FindByID(ctx context.Context, incidentID string) (*domain.Incident, error)
	// FindDetail joins the reporter profile when one is linked.
	FindDetail(ctx context.Context, incidentID string) (*domain.IncidentDetail, error)
	List(ctx context.Context, filter ListIncidentsFilter) ([]*domain.Incident, error)
	// UpdateStatus applies u only if the stored status is one of u.From and
	// reports whether a row changed.
	UpdateStatus(ctx context.Context, u StatusUpdate) (bool, error)
	// ApplyEnrichment writes classifier fields. Status and reporter are never touched.
	ApplyEnrichment(ctx context.Context, incidentID string, e domain.Classification) error
	CountByStatus(ctx context.Context) (map[domain.IncidentStatus]int64, error)
}
