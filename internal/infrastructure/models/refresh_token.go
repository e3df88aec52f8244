package models

import (
	"time"

	"github.com/google/uuid"
)

type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Token      string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	FamilyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}
