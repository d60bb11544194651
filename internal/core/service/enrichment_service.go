package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/pkg/metrics"
)

const defaultClassifyTimeout = 20 * time.Second

type enrichmentService struct {
	repo       ports.IncidentRepository
	classifier ports.Classifier
	timeout    time.Duration
	log        zerolog.Logger
}

// NewEnrichmentService returns an EnrichmentService that asks classifier about
// stored incidents. Classifier failures are logged and absorbed.
func NewEnrichmentService(repo ports.IncidentRepository, classifier ports.Classifier, timeout time.Duration, log zerolog.Logger) ports.EnrichmentService {
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}
	return &enrichmentService{repo: repo, classifier: classifier, timeout: timeout, log: log}
}

// Enrich classifies one incident and fills the fields the reporter left empty.
// No database transaction is open while the classifier is called.
func (s *enrichmentService) Enrich(ctx context.Context, incidentID string) error {
	incident, err := s.repo.FindByID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, domain.ErrIncidentNotFound) {
			metrics.ClassificationFailuresTotal.WithLabelValues("not_found").Inc()
		}
		return fmt.Errorf("enrich: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.classifier.Classify(callCtx, incident)
	if err != nil {
		metrics.ClassificationDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.ClassificationFailuresTotal.WithLabelValues("upstream").Inc()
		s.log.Warn().Err(err).Str("incident_id", incidentID).Msg("classification failed, incident kept unenriched")
		return nil
	}
	metrics.ClassificationDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	fill := incident.MergeClassification(result)
	if fill.IsEmpty() {
		return nil
	}

	if err := s.repo.ApplyEnrichment(ctx, incidentID, fill); err != nil {
		metrics.ClassificationFailuresTotal.WithLabelValues("persist").Inc()
		return fmt.Errorf("enrich: %w", err)
	}

	s.log.Info().
		Str("incident_id", incidentID).
		Str("severity", fill.Severity).
		Str("verified", fill.Verified).
		Msg("incident enriched")
	return nil
}
