package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/pkg/metrics"
)

const (
	// statusAll lists incidents regardless of status.
	statusAll = "all"

	idempotencyWriteTimeout = 2 * time.Second
)

// IncidentDeps groups the collaborators of IncidentService. Audit, Events,
// Idempotency and Enrichment are optional; nil disables the feature.
type IncidentDeps struct {
	Incidents   ports.IncidentRepository
	AppUsers    ports.AppUserRepository
	Audit       ports.ReviewAuditLog
	Events      ports.EventPublisher
	Idempotency ports.IdempotencyStore
	Enrichment  ports.EnrichmentQueue
}

type IncidentService struct {
	repo        ports.IncidentRepository
	appUsers    ports.AppUserRepository
	audit       ports.ReviewAuditLog
	events      ports.EventPublisher
	idempotency ports.IdempotencyStore
	enrichment  ports.EnrichmentQueue
	log         zerolog.Logger
	now         func() time.Time
}

func NewIncidentService(deps IncidentDeps, log zerolog.Logger) *IncidentService {
	return &IncidentService{
		repo:        deps.Incidents,
		appUsers:    deps.AppUsers,
		audit:       deps.Audit,
		events:      deps.Events,
		idempotency: deps.Idempotency,
		enrichment:  deps.Enrichment,
		log:         log,
		now:         time.Now,
	}
}

// ReportIncident stores a new pending incident. A nil AppUserID is an
// anonymous report. When an idempotency key is supplied and already
// completed, the earlier incident id is returned without side effects.
func (s *IncidentService) ReportIncident(ctx context.Context, in ports.ReportIncidentInput) (*ports.ReportIncidentResult, error) {
	if err := validateReport(in); err != nil {
		return nil, err
	}

	if in.AppUserID != nil {
		if _, err := s.appUsers.FindByID(ctx, *in.AppUserID); err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				return nil, fmt.Errorf("%w: unknown app_user_id %d", domain.ErrValidation, *in.AppUserID)
			}
			return nil, fmt.Errorf("report incident: %w", err)
		}
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	guarded := false
	if key != "" && s.idempotency != nil {
		reserved, existingID, err := s.idempotency.Reserve(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, processing anyway")
		case !reserved && existingID != "":
			existing, err := s.repo.FindByID(ctx, existingID)
			if err != nil {
				return nil, fmt.Errorf("idempotent replay: %w", err)
			}
			metrics.IdempotentReplaysTotal.Inc()
			s.log.Info().Str("idempotency_key", key).Str("incident_id", existingID).Msg("idempotent replay")
			return &ports.ReportIncidentResult{IncidentID: existingID, Status: existing.Status, AlreadyExisted: true}, nil
		case !reserved:
			return nil, domain.ErrDuplicateSubmission
		default:
			guarded = true
		}
	}

	now := s.now().UTC()
	ts := now
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.UTC()
	}

	incident := &domain.Incident{
		IncidentID:  uuid.NewString(),
		AppUserID:   in.AppUserID,
		Category:    in.Category,
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      domain.StatusPending,
		Location:    in.Location,
		Site:        in.Site,
		Media:       in.Media,
		Timestamp:   ts,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		if guarded {
			if relErr := s.releaseKey(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		s.log.Error().Err(err).Msg("failed to create incident")
		return nil, fmt.Errorf("report incident: %w", err)
	}

	if guarded {
		if err := s.completeKey(ctx, key, incident.IncidentID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to complete idempotency key")
		}
	}

	reporter := "profile"
	if incident.IsAnonymous() {
		reporter = "anonymous"
	}
	metrics.IncidentsReportedTotal.WithLabelValues(reporter).Inc()

	if s.enrichment != nil && !s.enrichment.Submit(incident.IncidentID) {
		metrics.ClassificationFailuresTotal.WithLabelValues("queue_full").Inc()
		s.log.Warn().Str("incident_id", incident.IncidentID).Msg("enrichment queue full, incident left unclassified")
	}

	s.publish(ctx, ports.EventIncidentReported, incident)

	s.log.Info().
		Str("incident_id", incident.IncidentID).
		Str("category", incident.Category).
		Str("reporter", reporter).
		Msg("incident reported")

	return &ports.ReportIncidentResult{IncidentID: incident.IncidentID, Status: incident.Status}, nil
}

// releaseKey and completeKey outlive a cancelled request so a timed-out
// submission does not leave its key reserved.
func (s *IncidentService) releaseKey(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyWriteTimeout)
	defer cancel()
	return s.idempotency.Release(ctx, key)
}

func (s *IncidentService) completeKey(ctx context.Context, key, incidentID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyWriteTimeout)
	defer cancel()
	return s.idempotency.Complete(ctx, key, incidentID)
}

func validateReport(in ports.ReportIncidentInput) error {
	switch {
	case strings.TrimSpace(in.Category) == "":
		return fmt.Errorf("%w: category is required", domain.ErrValidation)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	case in.Location.Latitude < -90 || in.Location.Latitude > 90:
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	case in.Location.Longitude < -180 || in.Location.Longitude > 180:
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}

// ListIncidents returns matching incidents newest first. An empty status
// filter means pending; "all" disables the status filter.
func (s *IncidentService) ListIncidents(ctx context.Context, in ports.ListIncidentsInput) ([]*domain.Incident, error) {
	filter := ports.ListIncidentsFilter{
		Severity: in.Severity,
		Category: in.Category,
		Site:     in.Site,
	}

	switch raw := in.Status; {
	case raw == "":
		filter.Statuses = []domain.IncidentStatus{domain.StatusPending}
	case raw == statusAll:
	default:
		st, ok := domain.ParseIncidentStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status filter %q", domain.ErrValidation, raw)
		}
		filter.Statuses = []domain.IncidentStatus{st}
	}

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

// GetIncidentDetail returns the incident with its reporter, or
// "Anonymous" as reporter when no profile is linked.
func (s *IncidentService) GetIncidentDetail(ctx context.Context, incidentID string) (*domain.IncidentDetail, error) {
	detail, err := s.repo.FindDetail(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if detail.IsAnonymous() || detail.Reporter.Name == "" {
		detail.Reporter = domain.Reporter{Name: domain.AnonymousReporter}
	}
	return detail, nil
}

// UpdateStatus moves the incident to status on behalf of reviewer. Status
// and attribution are written together; the audit trail and event are
// best-effort.
func (s *IncidentService) UpdateStatus(ctx context.Context, incidentID, status string, reviewer *domain.DashboardUser) (bool, error) {
	if reviewer == nil || !reviewer.Can(domain.CapabilityReviewIncidents) {
		return false, domain.ErrUnauthorized
	}

	current, err := s.repo.FindByID(ctx, incidentID)
	if err != nil {
		return false, err
	}

	target, ok := domain.ParseIncidentStatus(status)
	if !ok {
		metrics.StatusDecisionsTotal.WithLabelValues("unknown", "rejected").Inc()
		return false, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}

	if current.Status == target {
		metrics.StatusDecisionsTotal.WithLabelValues(string(target), "noop").Inc()
		return true, nil
	}
	if !current.Status.CanTransitionTo(target) {
		metrics.StatusDecisionsTotal.WithLabelValues(string(target), "rejected").Inc()
		return false, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, target)
	}

	decidedAt := s.now().UTC()
	changed, err := s.repo.UpdateStatus(ctx, ports.StatusUpdate{
		IncidentID: incidentID,
		To:         target,
		From:       target.Predecessors(),
		ReviewedBy: reviewer.ID,
		ReviewedAt: decidedAt,
	})
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}

	if !changed {
		// Another reviewer got there first.
		latest, err := s.repo.FindByID(ctx, incidentID)
		if err != nil {
			return false, err
		}
		if latest.Status == target {
			metrics.StatusDecisionsTotal.WithLabelValues(string(target), "noop").Inc()
			return true, nil
		}
		metrics.StatusDecisionsTotal.WithLabelValues(string(target), "rejected").Inc()
		return false, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, latest.Status, target)
	}

	metrics.StatusDecisionsTotal.WithLabelValues(string(target), "applied").Inc()

	record := domain.ReviewRecord{
		IncidentID:       incidentID,
		FromStatus:       current.Status,
		ToStatus:         target,
		ReviewerID:       reviewer.ID,
		ReviewerUsername: reviewer.Username,
		DecidedAt:        decidedAt,
	}
	if s.audit != nil {
		if err := s.audit.Append(ctx, record); err != nil {
			s.log.Warn().Err(err).Str("incident_id", incidentID).Msg("failed to append review audit record")
		}
	}
	s.publish(ctx, ports.EventIncidentReviewed, record)

	s.log.Info().
		Str("incident_id", incidentID).
		Str("from", string(current.Status)).
		Str("to", string(target)).
		Str("reviewer", reviewer.Username).
		Msg("incident status updated")

	return true, nil
}

// ReviewHistory returns the recorded decisions for an incident, oldest first.
func (s *IncidentService) ReviewHistory(ctx context.Context, incidentID string) ([]domain.ReviewRecord, error) {
	if _, err := s.repo.FindByID(ctx, incidentID); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []domain.ReviewRecord{}, nil
	}
	records, err := s.audit.ListByIncident(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("review history: %w", err)
	}
	return records, nil
}

// Stats counts incidents per status.
func (s *IncidentService) Stats(ctx context.Context) (map[domain.IncidentStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("incident stats: %w", err)
	}
	return counts, nil
}

func (s *IncidentService) publish(ctx context.Context, routingKey string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, payload); err != nil {
		s.log.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
	}
}
