package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorProfile: the user_id unique index is the 1:1 guarantee the role
// ledger relies on. Application pre-checks only fail fast.
type VendorProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreNameEn string    `gorm:"type:varchar(255);not null"`
	StoreNameAr string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description *string   `gorm:"type:text"`
	IsVerified  bool      `gorm:"not null;default:false"`
	IsActive    bool      `gorm:"not null;default:true"`
	VerifiedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	User User `gorm:"foreignKey:UserID"`
}
