package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/pkg/metrics"
)

// ProfileService links mobile reporters to an optional profile. It never
// requires authentication.
type ProfileService struct {
	repo ports.AppUserRepository
	log  zerolog.Logger
}

func NewProfileService(repo ports.AppUserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, log: log}
}

// CreateOrGetProfile returns the profile for in.NationalID, creating it on
// first use. An existing profile is returned unchanged, including its device id.
func (s *ProfileService) CreateOrGetProfile(ctx context.Context, in ports.CreateProfileInput) (*domain.AppUser, bool, error) {
	nationalID, err := domain.NormalizeNationalID(in.NationalID)
	if err != nil {
		return nil, false, err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, false, fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}

	user := &domain.AppUser{
		NationalID:  nationalID,
		FullName:    fullName,
		ContactInfo: strings.TrimSpace(in.ContactInfo),
		CreatedAt:   time.Now().UTC(),
	}
	if deviceID := strings.TrimSpace(in.DeviceID); deviceID != "" {
		user.DeviceID = &deviceID
	}

	profile, created, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("create profile: %w", err)
	}

	if created {
		metrics.ProfilesCreatedTotal.Inc()
		s.log.Info().Uint("app_user_id", profile.ID).Msg("app profile created")
	} else {
		s.log.Debug().Uint("app_user_id", profile.ID).Msg("existing app profile returned")
	}
	return profile, created, nil
}

// GetProfileByDeviceID returns nil, nil when the device is not linked.
func (s *ProfileService) GetProfileByDeviceID(ctx context.Context, deviceID string) (*domain.AppUser, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device_id is required", domain.ErrValidation)
	}

	profile, err := s.repo.FindByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
