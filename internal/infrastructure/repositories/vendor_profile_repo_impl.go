package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/infrastructure/models"
)

// VendorProfileRepository implements storefront data operations
type VendorProfileRepository struct {
	db *gorm.DB
}

// NewVendorProfileRepository creates a new vendor profile repository
func NewVendorProfileRepository(db *gorm.DB) *VendorProfileRepository {
	return &VendorProfileRepository{db: db}
}

// Create inserts the profile. The user_id and slug unique indexes are the
// real 1:1 guarantee; their violation surfaces as the domain Conflict error.
func (r *VendorProfileRepository) Create(ctx context.Context, profile *entities.VendorProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m := &models.VendorProfile{
		ID:          profile.ID,
		UserID:      profile.UserID,
		StoreNameEn: profile.StoreNameEn,
		StoreNameAr: profile.StoreNameAr,
		Slug:        profile.Slug,
		Description: profile.Description.Ptr(),
		IsVerified:  profile.IsVerified,
		IsActive:    profile.IsActive,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByUserID gets the profile owned by the user
func (r *VendorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.VendorProfile, error) {
	var m models.VendorProfile
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return vendorProfileToEntity(&m), nil
}

// GetBySlug gets a profile by its globally unique slug
func (r *VendorProfileRepository) GetBySlug(ctx context.Context, slug string) (*entities.VendorProfile, error) {
	var m models.VendorProfile
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("slug = ?", slug).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return vendorProfileToEntity(&m), nil
}

// CountByUserID counts profiles for the user; the unique index keeps it at most 1
func (r *VendorProfileRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.VendorProfile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func vendorProfileToEntity(m *models.VendorProfile) *entities.VendorProfile {
	return &entities.VendorProfile{
		ID:          m.ID,
		UserID:      m.UserID,
		StoreNameEn: m.StoreNameEn,
		StoreNameAr: m.StoreNameAr,
		Slug:        m.Slug,
		Description: null.StringFromPtr(m.Description),
		IsVerified:  m.IsVerified,
		IsActive:    m.IsActive,
		VerifiedAt:  null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CustomerProfileRepository implements customer profile data operations
type CustomerProfileRepository struct {
	db *gorm.DB
}

// NewCustomerProfileRepository creates a new customer profile repository
func NewCustomerProfileRepository(db *gorm.DB) *CustomerProfileRepository {
	return &CustomerProfileRepository{db: db}
}

// Create inserts the customer profile
func (r *CustomerProfileRepository) Create(ctx context.Context, profile *entities.CustomerProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Language == "" {
		profile.Language = "ar"
	}
	m := &models.CustomerProfile{
		ID:       profile.ID,
		UserID:   profile.UserID,
		Language: profile.Language,
		IsActive: profile.IsActive,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByUserID gets the customer profile owned by the user
func (r *CustomerProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.CustomerProfile, error) {
	var m models.CustomerProfile
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.CustomerProfile{
		ID:        m.ID,
		UserID:    m.UserID,
		Language:  m.Language,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateLanguage changes the language preference
func (r *CustomerProfileRepository) UpdateLanguage(ctx context.Context, userID uuid.UUID, language string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.CustomerProfile{}).
		Where("user_id = ?", userID).
		Update("language", language)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
