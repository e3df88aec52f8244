package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pro324test/store-sub001/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// GetByIDForUpdate reads the user inside the caller's transaction and
	// holds a row lock until commit. Writers that must serialize per user,
	// such as primary role grants, take this lock first.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]*entities.User, error)
}
