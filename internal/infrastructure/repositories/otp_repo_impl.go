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

// OneTimeCodeRepository implements one-time code data operations
type OneTimeCodeRepository struct {
	db *gorm.DB
}

// NewOneTimeCodeRepository creates a new one-time code repository
func NewOneTimeCodeRepository(db *gorm.DB) *OneTimeCodeRepository {
	return &OneTimeCodeRepository{db: db}
}

// Create inserts a new code
func (r *OneTimeCodeRepository) Create(ctx context.Context, code *entities.OneTimeCode) error {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	m := &models.OneTimeCode{
		ID:        code.ID,
		Phone:     code.Phone,
		Purpose:   string(code.Purpose),
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	code.CreatedAt = m.CreatedAt
	return nil
}

// GetLatestUnconsumed returns the newest unconsumed code for the pair.
// Expired rows are returned too; the verifier checks expiry lazily.
func (r *OneTimeCodeRepository) GetLatestUnconsumed(ctx context.Context, phone string, purpose entities.OtpPurpose) (*entities.OneTimeCode, error) {
	var m models.OneTimeCode
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("phone = ? AND purpose = ? AND consumed_at IS NULL", phone, string(purpose)).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.OneTimeCode{
		ID:         m.ID,
		Phone:      m.Phone,
		Purpose:    entities.OtpPurpose(m.Purpose),
		Code:       m.Code,
		ExpiresAt:  m.ExpiresAt,
		ConsumedAt: null.TimeFromPtr(m.ConsumedAt),
		CreatedAt:  m.CreatedAt,
	}, nil
}

// InvalidateUnconsumed marks every unconsumed code of the pair consumed, so a
// freshly generated code replaces rather than stacks
func (r *OneTimeCodeRepository) InvalidateUnconsumed(ctx context.Context, phone string, purpose entities.OtpPurpose) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.OneTimeCode{}).
		Where("phone = ? AND purpose = ? AND consumed_at IS NULL", phone, string(purpose)).
		Update("consumed_at", time.Now()).Error
}

// Consume marks the code consumed only if still unconsumed; the conditional
// update makes consumption exactly-once even under racing verifies
func (r *OneTimeCodeRepository) Consume(ctx context.Context, id string, now time.Time) (bool, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.OneTimeCode{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
