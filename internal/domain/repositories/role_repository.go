package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pro324test/store-sub001/internal/domain/entities"
)

// RoleAssignmentRepository defines role ledger data operations. Assign and
// DemotePrimary are expected to run inside a UnitOfWork transaction when the
// new assignment is primary, so two racing primary grants serialize.
type RoleAssignmentRepository interface {
	// Assign inserts the assignment, or reactivates an existing (user, role)
	// row. The (user_id, role) pair is unique at the storage layer.
	Assign(ctx context.Context, assignment *entities.RoleAssignment) error
	// DemotePrimary clears IsPrimary on every active assignment of the user.
	DemotePrimary(ctx context.Context, userID uuid.UUID) error
	Deactivate(ctx context.Context, userID uuid.UUID, role entities.Role) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entities.RoleAssignment, error)
	HasActiveRole(ctx context.Context, userID uuid.UUID, role entities.Role) (bool, error)
	CountActivePrimary(ctx context.Context, userID uuid.UUID) (int64, error)
}

// VendorProfileRepository defines storefront data operations. Create must
// surface the user_id unique violation as the domain Conflict error; the
// constraint, not a pre-check, is what guarantees the 1:1 invariant.
type VendorProfileRepository interface {
	Create(ctx context.Context, profile *entities.VendorProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.VendorProfile, error)
	GetBySlug(ctx context.Context, slug string) (*entities.VendorProfile, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// CustomerProfileRepository defines customer profile data operations
type CustomerProfileRepository interface {
	Create(ctx context.Context, profile *entities.CustomerProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.CustomerProfile, error)
	UpdateLanguage(ctx context.Context, userID uuid.UUID, language string) error
}
