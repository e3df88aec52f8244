package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Phone        string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	FullName     string     `gorm:"type:varchar(100);not null"`
	Email        *string    `gorm:"type:varchar(255)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	RoleAssignments []RoleAssignment `gorm:"foreignKey:UserID"`
}
