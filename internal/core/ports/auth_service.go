package ports

import (
	"context"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.DashboardUser, error)
	// ResolveToken returns nil when the token is not usable.
	ResolveToken(ctx context.Context, token string) (*domain.DashboardUser, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) (bool, error)
	CreateDashboardUser(ctx context.Context, username, password, fullName string) (*domain.DashboardUser, error)
}
