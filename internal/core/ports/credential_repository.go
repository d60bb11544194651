package ports

import (
	"context"
	"time"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// AppUserRepository persists mobile reporter profiles.
type AppUserRepository interface {
	// Upsert returns the profile with the same national id if one exists,
	// otherwise inserts user. The bool reports whether a row was created.
	Upsert(ctx context.Context, user *domain.AppUser) (*domain.AppUser, bool, error)
	FindByID(ctx context.Context, id uint) (*domain.AppUser, error)
	FindByDeviceID(ctx context.Context, deviceID string) (*domain.AppUser, error)
}

// DashboardUserRepository persists staff accounts.
type DashboardUserRepository interface {
	Create(ctx context.Context, user *domain.DashboardUser) (*domain.DashboardUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.DashboardUser, error)
	FindByID(ctx context.Context, id uint) (*domain.DashboardUser, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}
