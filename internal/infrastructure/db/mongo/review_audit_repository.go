package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

const reviewsCollection = "incident_reviews"

type reviewDocument struct {
	IncidentID       string    `bson:"incident_id"`
	FromStatus       string    `bson:"from_status"`
	ToStatus         string    `bson:"to_status"`
	ReviewerID       uint      `bson:"reviewer_id"`
	ReviewerUsername string    `bson:"reviewer_username"`
	DecidedAt        time.Time `bson:"decided_at"`
	RecordedAt       time.Time `bson:"recorded_at"`
}

// ReviewAuditRepository is the append-only audit trail of status decisions.
type ReviewAuditRepository struct {
	coll *mongo.Collection
}

// NewReviewAuditRepository creates a ReviewAuditRepository on db.
func NewReviewAuditRepository(db *mongo.Database) *ReviewAuditRepository {
	return &ReviewAuditRepository{coll: db.Collection(reviewsCollection)}
}

// EnsureIndexes creates the lookup index on incident_id and decided_at.
func (r *ReviewAuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "incident_id", Value: 1}, {Key: "decided_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create review index: %w", err)
	}
	return nil
}

// Append inserts one review record. Records are never updated or deleted.
func (r *ReviewAuditRepository) Append(ctx context.Context, rec domain.ReviewRecord) error {
	doc := reviewDocument{
		IncidentID:       rec.IncidentID,
		FromStatus:       string(rec.FromStatus),
		ToStatus:         string(rec.ToStatus),
		ReviewerID:       rec.ReviewerID,
		ReviewerUsername: rec.ReviewerUsername,
		DecidedAt:        rec.DecidedAt.UTC(),
		RecordedAt:       time.Now().UTC(),
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

// ListByIncident returns the decisions for incidentID, oldest first.
func (r *ReviewAuditRepository) ListByIncident(ctx context.Context, incidentID string) ([]domain.ReviewRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "decided_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"incident_id": incidentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.ReviewRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ReviewRecord{
			IncidentID:       d.IncidentID,
			FromStatus:       domain.IncidentStatus(d.FromStatus),
			ToStatus:         domain.IncidentStatus(d.ToStatus),
			ReviewerID:       d.ReviewerID,
			ReviewerUsername: d.ReviewerUsername,
			DecidedAt:        d.DecidedAt,
		})
	}
	return out, nil
}
