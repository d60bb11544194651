package ports

import (
	"context"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// CreateProfileInput is the DTO passed from the transport layer to ProfileService.
type CreateProfileInput struct {
	NationalID  string
	FullName    string
	ContactInfo string
	DeviceID    string // optional
}

type ProfileService interface {
	CreateOrGetProfile(ctx context.Context, in CreateProfileInput) (*domain.AppUser, bool, error)
	// GetProfileByDeviceID returns nil when no profile is linked to the device.
	GetProfileByDeviceID(ctx context.Context, deviceID string) (*domain.AppUser, error)
}
