package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

func TestReviewAuditRepository_Append(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewReviewAuditRepository(mt.DB)

		err := repo.Append(context.Background(), domain.ReviewRecord{
			IncidentID: "i1",
			FromStatus: domain.StatusPending,
			ToStatus:   domain.StatusAccepted,
			ReviewerID: 1,
			DecidedAt:  time.Now(),
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	})

	mt.Run("surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate"}))
		repo := NewReviewAuditRepository(mt.DB)

		if err := repo.Append(context.Background(), domain.ReviewRecord{IncidentID: "i1"}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestReviewAuditRepository_ListByIncident(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes records", func(mt *mtest.T) {
		decided := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + reviewsCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "incident_id", Value: "i1"},
				{Key: "from_status", Value: "pending"},
				{Key: "to_status", Value: "accepted"},
				{Key: "reviewer_id", Value: int64(7)},
				{Key: "reviewer_username", Value: "admin"},
				{Key: "decided_at", Value: decided},
			}),
		)
		repo := NewReviewAuditRepository(mt.DB)

		records, err := repo.ListByIncident(context.Background(), "i1")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		r := records[0]
		if r.ToStatus != domain.StatusAccepted || r.ReviewerID != 7 || r.ReviewerUsername != "admin" || !r.DecidedAt.Equal(decided) {
			t.Fatalf("unexpected record: %+v", r)
		}
	})
}
