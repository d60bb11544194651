package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

// DashboardUserRepository implements ports.DashboardUserRepository using GORM.
type DashboardUserRepository struct {
	db *gorm.DB
}

var _ ports.DashboardUserRepository = (*DashboardUserRepository)(nil)

func NewDashboardUserRepository(db *gorm.DB) *DashboardUserRepository {
	return &DashboardUserRepository{db: db}
}

func (r *DashboardUserRepository) Create(ctx context.Context, user *domain.DashboardUser) (*domain.DashboardUser, error) {
	row := &dashboardUserRow{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		IsActive:     user.IsActive,
		LastLogin:    user.LastLogin,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *DashboardUserRepository) FindByUsername(ctx context.Context, username string) (*domain.DashboardUser, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *DashboardUserRepository) FindByID(ctx context.Context, id uint) (*domain.DashboardUser, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *DashboardUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.update(ctx, id, "last_login", at)
}

func (r *DashboardUserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.update(ctx, id, "password_hash", hash)
}

// SetActive enables or disables login for a user without deleting it.
func (r *DashboardUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.update(ctx, id, "is_active", active)
}

func (r *DashboardUserRepository) update(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&dashboardUserRow{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the value is unchanged.
		_, err := r.FindByID(ctx, id)
		return err
	}
	return nil
}

func (r *DashboardUserRepository) findOne(ctx context.Context, query string, arg any) (*domain.DashboardUser, error) {
	var row dashboardUserRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}
