package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

type stubClassifier struct {
	result   domain.Classification
	err      error
	delay    time.Duration
	calls    int
	deadline bool
}

func (c *stubClassifier) Classify(ctx context.Context, _ *domain.Incident) (domain.Classification, error) {
	c.calls++
	_, c.deadline = ctx.Deadline()
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return domain.Classification{}, ctx.Err()
		}
	}
	return c.result, c.err
}

func TestEnrichmentService_FillsOnlyEmptyFields(t *testing.T) {
	repo := newStubIncidentRepo(nil)
	repo.byID["i1"] = &domain.Incident{IncidentID: "i1", Category: "Accident", Status: domain.StatusPending}
	classifier := &stubClassifier{result: domain.Classification{Category: "Violence", Severity: "High", Verified: "Real", Title: "Crash"}}

	svc := NewEnrichmentService(repo, classifier, time.Second, zerolog.Nop())
	if err := svc.Enrich(context.Background(), "i1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := repo.byID["i1"]
	if got.Category != "Accident" {
		t.Errorf("reporter category must be kept, got %q", got.Category)
	}
	if got.Severity != "High" || got.Verified != "Real" || got.Title != "Crash" {
		t.Errorf("unexpected enrichment: %+v", got)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("status must not change, got %s", got.Status)
	}
	if !classifier.deadline {
		t.Errorf("classifier must be called with a deadline")
	}
}

func TestEnrichmentService_UpstreamFailureIsAbsorbed(t *testing.T) {
	repo := newStubIncidentRepo(nil)
	repo.byID["i1"] = &domain.Incident{IncidentID: "i1", Category: "Accident"}
	classifier := &stubClassifier{err: domain.ErrUpstreamUnavailable}

	svc := NewEnrichmentService(repo, classifier, time.Second, zerolog.Nop())
	if err := svc.Enrich(context.Background(), "i1"); err != nil {
		t.Fatalf("upstream failure must be absorbed, got %v", err)
	}
	if repo.byID["i1"].Severity != "" {
		t.Fatalf("nothing must be written on failure")
	}
}

func TestEnrichmentService_Timeout(t *testing.T) {
	repo := newStubIncidentRepo(nil)
	repo.byID["i1"] = &domain.Incident{IncidentID: "i1", Category: "Accident"}
	classifier := &stubClassifier{delay: time.Second, result: domain.Classification{Severity: "High"}}

	svc := NewEnrichmentService(repo, classifier, 20*time.Millisecond, zerolog.Nop())
	start := time.Now()
	if err := svc.Enrich(context.Background(), "i1"); err != nil {
		t.Fatalf("timeout must be absorbed, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("classifier call was not bounded by the timeout")
	}
	if repo.byID["i1"].Severity != "" {
		t.Fatalf("nothing must be written after a timeout")
	}
}

func TestEnrichmentService_UnknownIncident(t *testing.T) {
	svc := NewEnrichmentService(newStubIncidentRepo(nil), &stubClassifier{}, time.Second, zerolog.Nop())
	if err := svc.Enrich(context.Background(), "missing"); !errors.Is(err, domain.ErrIncidentNotFound) {
		t.Fatalf("expected ErrIncidentNotFound, got %v", err)
	}
}

func TestEnrichmentService_NothingToFill(t *testing.T) {
	repo := newStubIncidentRepo(nil)
	repo.byID["i1"] = &domain.Incident{IncidentID: "i1", Category: "Accident", Severity: "Low", Verified: "False", Title: "t"}
	classifier := &stubClassifier{result: domain.Classification{Severity: "High"}}

	svc := NewEnrichmentService(repo, classifier, time.Second, zerolog.Nop())
	if err := svc.Enrich(context.Background(), "i1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID["i1"].Severity != "Low" {
		t.Fatalf("reporter severity must be kept")
	}
}
