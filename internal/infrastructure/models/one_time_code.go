package models

import (
	"time"

	"github.com/google/uuid"
)

type OneTimeCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Phone      string    `gorm:"type:varchar(20);not null;index:idx_otp_phone_purpose"`
	Purpose    string    `gorm:"type:varchar(30);not null;index:idx_otp_phone_purpose"`
	Code       string    `gorm:"type:varchar(10);not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
