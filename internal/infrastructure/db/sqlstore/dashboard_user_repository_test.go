package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

func TestDashboardUserRepository_CreateAndFind(t *testing.T) {
	repo := NewDashboardUserRepository(newTestDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, &domain.DashboardUser{Username: "admin", PasswordHash: "hash", FullName: "Admin", IsActive: true})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	byName, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.True(t, byName.IsActive)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDashboardUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewDashboardUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.DashboardUser{Username: "admin", PasswordHash: "h1", IsActive: true})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.DashboardUser{Username: "admin", PasswordHash: "h2", IsActive: true})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestDashboardUserRepository_Updates(t *testing.T) {
	repo := NewDashboardUserRepository(newTestDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, &domain.DashboardUser{Username: "sara", PasswordHash: "old", IsActive: true})
	require.NoError(t, err)

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, u.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, u.ID, "new"))
	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	require.NoError(t, repo.SetActive(ctx, u.ID, false))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
	assert.Equal(t, "new", got.PasswordHash)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.TouchLastLogin(ctx, 999, at), domain.ErrUserNotFound)
}
