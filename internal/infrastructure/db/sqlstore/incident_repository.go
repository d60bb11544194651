package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

// IncidentRepository implements ports.IncidentRepository using GORM.
type IncidentRepository struct {
	db *gorm.DB
}

var _ ports.IncidentRepository = (*IncidentRepository)(nil)

func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	return r.db.WithContext(ctx).Omit("AppUser").Create(incidentRowFrom(incident)).Error
}

func (r *IncidentRepository) FindByID(ctx context.Context, incidentID string) (*domain.Incident, error) {
	var row incidentRow
	if err := r.db.WithContext(ctx).Where("incident_id = ?", incidentID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIncidentNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

// FindDetail loads the incident and, when linked, its reporter profile.
func (r *IncidentRepository) FindDetail(ctx context.Context, incidentID string) (*domain.IncidentDetail, error) {
	var row incidentRow
	err := r.db.WithContext(ctx).
		Preload("AppUser").
		Where("incident_id = ?", incidentID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIncidentNotFound
		}
		return nil, err
	}

	detail := &domain.IncidentDetail{Incident: *row.toDomain()}
	if row.AppUser != nil {
		detail.Reporter = domain.Reporter{Name: row.AppUser.FullName, Contact: row.AppUser.ContactInfo}
	} else {
		detail.Reporter = domain.Reporter{Name: domain.AnonymousReporter}
	}
	return detail, nil
}

// List returns incidents newest first. Ties are broken by creation time and
// then id so repeated calls return the same order.
func (r *IncidentRepository) List(ctx context.Context, filter ports.ListIncidentsFilter) ([]*domain.Incident, error) {
	q := r.db.WithContext(ctx).Model(&incidentRow{})
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Site != "" {
		q = q.Where("site = ?", filter.Site)
	}

	var rows []incidentRow
	err := q.Order("occurred_at DESC").
		Order("created_at DESC").
		Order("incident_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Incident, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// UpdateStatus writes status and attribution in one conditional statement.
func (r *IncidentRepository) UpdateStatus(ctx context.Context, u ports.StatusUpdate) (bool, error) {
	if len(u.From) == 0 {
		return false, nil
	}
	res := r.db.WithContext(ctx).
		Model(&incidentRow{}).
		Where("incident_id = ? AND status IN ?", u.IncidentID, statusStrings(u.From)).
		Updates(map[string]any{
			"status":      string(u.To),
			"reviewed_by": u.ReviewedBy,
			"reviewed_at": u.ReviewedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ApplyEnrichment writes the non-empty classifier fields.
func (r *IncidentRepository) ApplyEnrichment(ctx context.Context, incidentID string, e domain.Classification) error {
	updates := make(map[string]any, 4)
	if e.Category != "" {
		updates["category"] = e.Category
	}
	if e.Severity != "" {
		updates["severity"] = e.Severity
	}
	if e.Verified != "" {
		updates["verified"] = e.Verified
	}
	if e.Title != "" {
		updates["title"] = e.Title
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&incidentRow{}).Where("incident_id = ?", incidentID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrIncidentNotFound
	}
	return nil
}

func (r *IncidentRepository) CountByStatus(ctx context.Context) (map[domain.IncidentStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&incidentRow{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[domain.IncidentStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.IncidentStatus(row.Status)] = row.Total
	}
	return out, nil
}

func statusStrings(in []domain.IncidentStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
