package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createRoleAssignmentTable(t, db)

	repo := NewUserRepository(db)
	roleRepo := NewRoleAssignmentRepository(db)
	ctx := context.Background()

	user := &entities.User{
		Phone:        "+218911111111",
		FullName:     "First User",
		Email:        null.StringFrom("first@example.com"),
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	require.NoError(t, roleRepo.Assign(ctx, &entities.RoleAssignment{
		UserID:    user.ID,
		Role:      entities.RoleCustomer,
		IsActive:  true,
		IsPrimary: true,
	}))

	byPhone, err := repo.GetByPhone(ctx, user.Phone)
	require.NoError(t, err)
	require.Equal(t, user.ID, byPhone.ID)
	require.Equal(t, "first@example.com", byPhone.Email.String)
	require.Len(t, byPhone.Roles, 1)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Phone, byID.Phone)
	primary, ok := byID.PrimaryRole()
	require.True(t, ok)
	require.Equal(t, entities.RoleCustomer, primary)
}

func TestUserRepository_DuplicatePhone(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &entities.User{Phone: "+218911111111", FullName: "First", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, first))

	dup := &entities.User{Phone: "+218911111111", FullName: "Second", PasswordHash: "hash", IsActive: true}
	err := repo.Create(ctx, dup)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUserRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByPhone(ctx, "+218900000000")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.ErrorIs(t, repo.Update(ctx, &entities.User{ID: uuid.New(), FullName: "Ghost"}), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "newhash"), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Deactivate(ctx, uuid.New()), domainerrors.ErrNotFound)
}

func TestUserRepository_GetByIDForUpdate(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createRoleAssignmentTable(t, db)

	repo := NewUserRepository(db)
	roleRepo := NewRoleAssignmentRepository(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	user := &entities.User{Phone: "+218911111111", FullName: "Locked User", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, roleRepo.Assign(ctx, &entities.RoleAssignment{
		UserID: user.ID, Role: entities.RoleCustomer, IsPrimary: true,
	}))

	// Promote the way the ledger does: lock the user row, demote, insert,
	// all inside one transaction.
	err := uow.Do(ctx, func(txCtx context.Context) error {
		locked, err := repo.GetByIDForUpdate(txCtx, user.ID)
		if err != nil {
			return err
		}
		require.Equal(t, user.ID, locked.ID)
		if err := roleRepo.DemotePrimary(txCtx, user.ID); err != nil {
			return err
		}
		return roleRepo.Assign(txCtx, &entities.RoleAssignment{
			UserID: user.ID, Role: entities.RoleVendor, IsPrimary: true,
		})
	})
	require.NoError(t, err)

	count, err := roleRepo.CountActivePrimary(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = repo.GetByIDForUpdate(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_UpdateDeactivateAndList(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createRoleAssignmentTable(t, db)

	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entities.User{Phone: "+218911111111", FullName: "Before", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))

	user.FullName = "After"
	user.Email = null.StringFrom("after@example.com")
	require.NoError(t, repo.Update(ctx, user))

	require.NoError(t, repo.TouchLastLogin(ctx, user.ID))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "After", got.FullName)
	require.True(t, got.LastLoginAt.Valid)

	require.NoError(t, repo.Deactivate(ctx, user.ID))
	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	users, err := repo.List(ctx, "After")
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, err = repo.List(ctx, "no-such-user")
	require.NoError(t, err)
	require.Empty(t, users)
}
