package models

import (
	"time"

	"github.com/google/uuid"
)

type RoleAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_role_assignments_user_role"`
	Role      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_assignments_user_role"`
	IsActive  bool      `gorm:"not null;default:true"`
	IsPrimary bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
