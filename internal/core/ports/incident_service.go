package ports

import (
	"context"
	"time"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// ReportIncidentInput carries everything a mobile client submits.
type ReportIncidentInput struct {
	AppUserID      *uint // nil = anonymous
	Category       string
	Title          string
	Description    string
	Severity       string // optional
	Location       domain.Location
	Site           string
	Media          []string
	Timestamp      *time.Time // optional, defaults to now
	IdempotencyKey string
}

// ReportIncidentResult is returned after an incident has been accepted.
type ReportIncidentResult struct {
	IncidentID     string
	Status         domain.IncidentStatus
	AlreadyExisted bool
}

// ListIncidentsInput carries raw dashboard filters. An empty status means pending.
type ListIncidentsInput struct {
	Status   string
	Severity string
	Category string
	Site     string
}

type IncidentService interface {
	ReportIncident(ctx context.Context, in ReportIncidentInput) (*ReportIncidentResult, error)
	ListIncidents(ctx context.Context, in ListIncidentsInput) ([]*domain.Incident, error)
	GetIncidentDetail(ctx context.Context, incidentID string) (*domain.IncidentDetail, error)
	UpdateStatus(ctx context.Context, incidentID, status string, reviewer *domain.DashboardUser) (bool, error)
	ReviewHistory(ctx context.Context, incidentID string) ([]domain.ReviewRecord, error)
	Stats(ctx context.Context) (map[domain.IncidentStatus]int64, error)
}
