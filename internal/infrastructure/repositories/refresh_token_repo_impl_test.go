package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
)

func newStoredToken(t *testing.T, repo *RefreshTokenRepository, token string, familyID uuid.UUID, expiresAt time.Time) *entities.RefreshToken {
	t.Helper()
	row := &entities.RefreshToken{
		UserID:    uuid.New(),
		Token:     token,
		FamilyID:  familyID,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), row))
	return row
}

func TestRefreshTokenRepository_ConsumeIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	createRefreshTokenTable(t, db)

	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()
	newStoredToken(t, repo, "opaque-1", uuid.New(), time.Now().Add(time.Hour))

	won, err := repo.Consume(ctx, "opaque-1", time.Now())
	require.NoError(t, err)
	require.True(t, won)

	// The same token cannot be consumed twice
	won, err = repo.Consume(ctx, "opaque-1", time.Now())
	require.NoError(t, err)
	require.False(t, won)

	got, err := repo.GetByToken(ctx, "opaque-1")
	require.NoError(t, err)
	require.True(t, got.ConsumedAt.Valid)
	require.False(t, got.Usable(time.Now()))
}

func TestRefreshTokenRepository_ConsumeRejectsExpiredAndRevoked(t *testing.T) {
	db := newTestDB(t)
	createRefreshTokenTable(t, db)

	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	newStoredToken(t, repo, "expired", uuid.New(), time.Now().Add(-time.Hour))
	won, err := repo.Consume(ctx, "expired", time.Now())
	require.NoError(t, err)
	require.False(t, won)

	newStoredToken(t, repo, "revoked", uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, repo.Revoke(ctx, "revoked", time.Now()))
	won, err = repo.Consume(ctx, "revoked", time.Now())
	require.NoError(t, err)
	require.False(t, won)
}

func TestRefreshTokenRepository_RevokeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	createRefreshTokenTable(t, db)

	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()
	newStoredToken(t, repo, "opaque-2", uuid.New(), time.Now().Add(time.Hour))

	require.NoError(t, repo.Revoke(ctx, "opaque-2", time.Now()))
	require.NoError(t, repo.Revoke(ctx, "opaque-2", time.Now()))
	// Revoking an unknown token is also a no-op
	require.NoError(t, repo.Revoke(ctx, "never-issued", time.Now()))
}

func TestRefreshTokenRepository_RevokeFamily(t *testing.T) {
	db := newTestDB(t)
	createRefreshTokenTable(t, db)

	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()
	family := uuid.New()

	newStoredToken(t, repo, "gen-1", family, time.Now().Add(time.Hour))
	newStoredToken(t, repo, "gen-2", family, time.Now().Add(time.Hour))
	other := newStoredToken(t, repo, "other-family", uuid.New(), time.Now().Add(time.Hour))

	require.NoError(t, repo.RevokeFamily(ctx, family, time.Now()))

	for _, token := range []string{"gen-1", "gen-2"} {
		got, err := repo.GetByToken(ctx, token)
		require.NoError(t, err)
		require.True(t, got.RevokedAt.Valid)
	}

	untouched, err := repo.GetByToken(ctx, other.Token)
	require.NoError(t, err)
	require.False(t, untouched.RevokedAt.Valid)
}

func TestRefreshTokenRepository_DuplicateTokenValue(t *testing.T) {
	db := newTestDB(t)
	createRefreshTokenTable(t, db)

	repo := NewRefreshTokenRepository(db)
	newStoredToken(t, repo, "collide", uuid.New(), time.Now().Add(time.Hour))

	err := repo.Create(context.Background(), &entities.RefreshToken{
		UserID:    uuid.New(),
		Token:     "collide",
		FamilyID:  uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestRefreshTokenRepository_DeleteExpiredBefore(t *testing.T) {
	db := newTestDB(t)
	createRefreshTokenTable(t, db)

	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	newStoredToken(t, repo, "stale", uuid.New(), time.Now().Add(-48*time.Hour))
	newStoredToken(t, repo, "live", uuid.New(), time.Now().Add(time.Hour))

	deleted, err := repo.DeleteExpiredBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = repo.GetByToken(ctx, "stale")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = repo.GetByToken(ctx, "live")
	require.NoError(t, err)
}
