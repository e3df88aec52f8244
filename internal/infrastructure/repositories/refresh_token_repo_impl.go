package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/infrastructure/models"
)

// RefreshTokenRepository implements refresh token data operations
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create inserts a new refresh token row
func (r *RefreshTokenRepository) Create(ctx context.Context, token *entities.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	m := &models.RefreshToken{
		ID:        token.ID,
		UserID:    token.UserID,
		Token:     token.Token,
		FamilyID:  token.FamilyID,
		ExpiresAt: token.ExpiresAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	token.CreatedAt = m.CreatedAt
	return nil
}

// GetByToken gets a refresh token row by its opaque value
func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*entities.RefreshToken, error) {
	var m models.RefreshToken
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("token = ?", token).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.RefreshToken{
		ID:         m.ID,
		UserID:     m.UserID,
		Token:      m.Token,
		FamilyID:   m.FamilyID,
		ExpiresAt:  m.ExpiresAt,
		ConsumedAt: null.TimeFromPtr(m.ConsumedAt),
		RevokedAt:  null.TimeFromPtr(m.RevokedAt),
		CreatedAt:  m.CreatedAt,
	}, nil
}

// Consume marks the token consumed only if it is still live. The conditional
// update is the single-use contract: of two racing rotations exactly one sees
// RowsAffected == 1.
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND consumed_at IS NULL AND revoked_at IS NULL AND expires_at > ?", token, now).
		Update("consumed_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Revoke marks the token revoked; revoking a dead token is a no-op
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, now time.Time) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", now).Error
}

// RevokeFamily revokes every live token in the family
func (r *RefreshTokenRepository) RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("family_id = ? AND revoked_at IS NULL", familyID).
		Update("revoked_at", now).Error
}

// DeleteExpiredBefore removes rows whose expiry is older than the cutoff
func (r *RefreshTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
