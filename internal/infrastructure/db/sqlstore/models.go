package sqlstore

import (
	"time"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

type appUserRow struct {
	ID          uint    `gorm:"primaryKey"`
	NationalID  string  `gorm:"size:14;not null;uniqueIndex"`
	FullName    string  `gorm:"size:255;not null"`
	ContactInfo string  `gorm:"size:255"`
	DeviceID    *string `gorm:"size:255;index"`
	CreatedAt   time.Time
}

func (appUserRow) TableName() string { return "app_users" }

func (r *appUserRow) toDomain() *domain.AppUser {
	return &domain.AppUser{
		ID:          r.ID,
		NationalID:  r.NationalID,
		FullName:    r.FullName,
		ContactInfo: r.ContactInfo,
		DeviceID:    r.DeviceID,
		CreatedAt:   r.CreatedAt,
	}
}

func appUserRowFrom(u *domain.AppUser) *appUserRow {
	return &appUserRow{
		ID:          u.ID,
		NationalID:  u.NationalID,
		FullName:    u.FullName,
		ContactInfo: u.ContactInfo,
		DeviceID:    u.DeviceID,
		CreatedAt:   u.CreatedAt,
	}
}

type dashboardUserRow struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	FullName     string `gorm:"size:255"`
	IsActive     bool   `gorm:"not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
}

func (dashboardUserRow) TableName() string { return "dashboard_users" }

func (r *dashboardUserRow) toDomain() *domain.DashboardUser {
	return &domain.DashboardUser{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		FullName:     r.FullName,
		IsActive:     r.IsActive,
		LastLogin:    r.LastLogin,
		CreatedAt:    r.CreatedAt,
	}
}

type incidentRow struct {
	IncidentID  string      `gorm:"primaryKey;size:36"`
	AppUserID   *uint       `gorm:"index"`
	AppUser     *appUserRow `gorm:"foreignKey:AppUserID;constraint:OnDelete:RESTRICT"`
	Category    string      `gorm:"size:100;index"`
	Title       string      `gorm:"size:255"`
	Description string      `gorm:"type:text;not null"`
	Severity    string      `gorm:"size:20;index"`
	Verified    string      `gorm:"size:20"`
	Status      string      `gorm:"size:20;not null;index"`
	Latitude    float64
	Longitude   float64
	Address     string    `gorm:"size:500"`
	Site        string    `gorm:"size:100;index"`
	Media       []string  `gorm:"type:text;serializer:json"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null;index"`
	CreatedAt   time.Time
	ReviewedBy  *uint
	ReviewedAt  *time.Time
}

func (incidentRow) TableName() string { return "incidents" }

func (r *incidentRow) toDomain() *domain.Incident {
	return &domain.Incident{
		IncidentID:  r.IncidentID,
		AppUserID:   r.AppUserID,
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		Severity:    r.Severity,
		Verified:    r.Verified,
		Status:      domain.IncidentStatus(r.Status),
		Location: domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Address:   r.Address,
		},
		Site:       r.Site,
		Media:      r.Media,
		Timestamp:  r.OccurredAt.UTC(),
		CreatedAt:  r.CreatedAt.UTC(),
		ReviewedBy: r.ReviewedBy,
		ReviewedAt: r.ReviewedAt,
	}
}

func incidentRowFrom(i *domain.Incident) *incidentRow {
	return &incidentRow{
		IncidentID:  i.IncidentID,
		AppUserID:   i.AppUserID,
		Category:    i.Category,
		Title:       i.Title,
		Description: i.Description,
		Severity:    i.Severity,
		Verified:    i.Verified,
		Status:      string(i.Status),
		Latitude:    i.Location.Latitude,
		Longitude:   i.Location.Longitude,
		Address:     i.Location.Address,
		Site:        i.Site,
		Media:       i.Media,
		OccurredAt:  i.Timestamp,
		CreatedAt:   i.CreatedAt,
		ReviewedBy:  i.ReviewedBy,
		ReviewedAt:  i.ReviewedAt,
	}
}
