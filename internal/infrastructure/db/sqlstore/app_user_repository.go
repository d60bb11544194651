package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

// AppUserRepository implements ports.AppUserRepository using GORM.
type AppUserRepository struct {
	db *gorm.DB
}

var _ ports.AppUserRepository = (*AppUserRepository)(nil)

func NewAppUserRepository(db *gorm.DB) *AppUserRepository {
	return &AppUserRepository{db: db}
}

// Upsert is read-if-exists, else insert. Losing an insert race on the
// national_id unique index falls back to reading the winning row.
func (r *AppUserRepository) Upsert(ctx context.Context, user *domain.AppUser) (*domain.AppUser, bool, error) {
	existing, err := r.findByNationalID(ctx, user.NationalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, false, err
	}

	row := appUserRowFrom(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKey(err) {
			existing, findErr := r.findByNationalID(ctx, user.NationalID)
			if findErr != nil {
				return nil, false, fmt.Errorf("read profile after conflict: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert profile: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *AppUserRepository) FindByID(ctx context.Context, id uint) (*domain.AppUser, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByDeviceID returns the oldest profile linked to deviceID.
func (r *AppUserRepository) FindByDeviceID(ctx context.Context, deviceID string) (*domain.AppUser, error) {
	return r.findOne(ctx, "device_id = ?", deviceID)
}

func (r *AppUserRepository) findByNationalID(ctx context.Context, nationalID string) (*domain.AppUser, error) {
	return r.findOne(ctx, "national_id = ?", nationalID)
}

func (r *AppUserRepository) findOne(ctx context.Context, query string, arg any) (*domain.AppUser, error) {
	var row appUserRow
	err := r.db.WithContext(ctx).Where(query, arg).Order("id ASC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}
