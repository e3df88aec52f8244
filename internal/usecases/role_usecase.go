package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/domain/repositories"
	redispkg "github.com/pro324test/store-sub001/pkg/redis"
)

// RoleUsecase is the role ledger: it owns the "exactly one active primary
// role" invariant and the 1:1 user-storefront invariant.
type RoleUsecase struct {
	roleRepo   repositories.RoleAssignmentRepository
	userRepo   repositories.UserRepository
	vendorRepo repositories.VendorProfileRepository
	uow        repositories.UnitOfWork
	cache      *redispkg.IdentityCache
}

// NewRoleUsecase creates a new role usecase
func NewRoleUsecase(
	roleRepo repositories.RoleAssignmentRepository,
	userRepo repositories.UserRepository,
	vendorRepo repositories.VendorProfileRepository,
	uow repositories.UnitOfWork,
	cache *redispkg.IdentityCache,
) *RoleUsecase {
	return &RoleUsecase{
		roleRepo:   roleRepo,
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		uow:        uow,
		cache:      cache,
	}
}

// AssignRole grants a role to the user. The whole grant runs in one
// transaction that starts by locking the user row, so two racing primary
// grants serialize: the second demote always sees the first grant's committed
// insert instead of a stale snapshot.
func (u *RoleUsecase) AssignRole(ctx context.Context, userID uuid.UUID, role entities.Role, isPrimary bool) (*entities.RoleAssignment, error) {
	if !role.IsValid() {
		return nil, domainerrors.ErrInvalidInput
	}

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	assignment := &entities.RoleAssignment{
		UserID:    userID,
		Role:      role,
		IsActive:  true,
		IsPrimary: isPrimary,
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.userRepo.GetByIDForUpdate(txCtx, userID); err != nil {
			return err
		}
		if isPrimary {
			if err := u.roleRepo.DemotePrimary(txCtx, userID); err != nil {
				return err
			}
		}
		return u.roleRepo.Assign(txCtx, assignment)
	})
	if err != nil {
		return nil, mapStorageErr(err)
	}

	u.invalidateIdentity(ctx, userID)
	return assignment, nil
}

// RevokeRole deactivates the assignment; the row is kept
func (u *RoleUsecase) RevokeRole(ctx context.Context, userID uuid.UUID, role entities.Role) error {
	if !role.IsValid() {
		return domainerrors.ErrInvalidInput
	}

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	if err := u.roleRepo.Deactivate(ctx, userID, role); err != nil {
		return mapStorageErr(err)
	}
	u.invalidateIdentity(ctx, userID)
	return nil
}

// HasActiveRole reports whether the user currently holds the role; the
// authorization boundary gates privileged operations on this
func (u *RoleUsecase) HasActiveRole(ctx context.Context, userID uuid.UUID, role entities.Role) (bool, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()
	ok, err := u.roleRepo.HasActiveRole(ctx, userID, role)
	return ok, mapStorageErr(err)
}

// CreateVendorProfile creates the user's storefront. An active VENDOR role is
// required. The existence pre-check only fails fast: the storage unique
// constraint on user_id is what actually guarantees at most one profile, so a
// lost race still comes back as Conflict.
func (u *RoleUsecase) CreateVendorProfile(ctx context.Context, userID uuid.UUID, input *entities.CreateVendorProfileInput) (*entities.VendorProfile, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	hasVendor, err := u.roleRepo.HasActiveRole(ctx, userID, entities.RoleVendor)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if !hasVendor {
		return nil, domainerrors.ErrForbidden
	}

	count, err := u.vendorRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if count > 0 {
		return nil, domainerrors.ErrConflict
	}

	profile := &entities.VendorProfile{
		UserID:      userID,
		StoreNameEn: input.StoreNameEn,
		StoreNameAr: input.StoreNameAr,
		Slug:        input.Slug,
		IsActive:    true,
	}
	if input.Description != "" {
		profile.Description = null.StringFrom(input.Description)
	}

	if err := u.vendorRepo.Create(ctx, profile); err != nil {
		return nil, mapStorageErr(err)
	}

	u.invalidateIdentity(ctx, userID)
	return profile, nil
}

// GetVendorProfile returns the user's storefront record
func (u *RoleUsecase) GetVendorProfile(ctx context.Context, userID uuid.UUID) (*entities.VendorProfile, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()
	profile, err := u.vendorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return profile, nil
}

func (u *RoleUsecase) invalidateIdentity(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil || redispkg.GetClient() == nil {
		return
	}
	_ = u.cache.Invalidate(ctx, userID.String())
}
