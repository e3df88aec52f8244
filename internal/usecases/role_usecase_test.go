package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/usecases"
)

type roleFixture struct {
	roleRepo   *MockRoleAssignmentRepository
	userRepo   *MockUserRepository
	vendorRepo *MockVendorProfileRepository
	uow        *MockUnitOfWork
	uc         *usecases.RoleUsecase
}

func newRoleFixture() *roleFixture {
	f := &roleFixture{
		roleRepo:   new(MockRoleAssignmentRepository),
		userRepo:   new(MockUserRepository),
		vendorRepo: new(MockVendorProfileRepository),
		uow:        new(MockUnitOfWork),
	}
	f.uc = usecases.NewRoleUsecase(f.roleRepo, f.userRepo, f.vendorRepo, f.uow, nil)
	return f
}

func TestRoleUsecase_AssignRole_PrimaryDemotesInTransaction(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	f.userRepo.On("GetByIDForUpdate", mock.Anything, userID).Return(&entities.User{ID: userID, IsActive: true}, nil).Once()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.roleRepo.On("DemotePrimary", mock.Anything, userID).Return(nil).Once()
	f.roleRepo.On("Assign", mock.Anything, mock.AnythingOfType("*entities.RoleAssignment")).Return(nil).Once()

	assignment, err := f.uc.AssignRole(context.Background(), userID, entities.RoleVendor, true)
	require.NoError(t, err)
	assert.True(t, assignment.IsPrimary)

	// The demote runs before the insert, inside the same transaction scope
	f.roleRepo.AssertCalled(t, "DemotePrimary", mock.Anything, userID)
	require.Len(t, f.roleRepo.Calls, 2)
	assert.Equal(t, "DemotePrimary", f.roleRepo.Calls[0].Method)
	assert.Equal(t, "Assign", f.roleRepo.Calls[1].Method)
}

func TestRoleUsecase_AssignRole_LocksUserBeforeDemote(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	// Racing primary grants serialize on the user row lock, so the lock must
	// be taken inside the transaction and before the demote. A read outside
	// the transaction, or after the demote, would let two grants both commit
	// as primary against stale snapshots.
	var order []string
	f.uow.On("Do", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "begin")
	}).Return(nil).Once()
	f.userRepo.On("GetByIDForUpdate", mock.Anything, userID).Run(func(mock.Arguments) {
		order = append(order, "lock_user")
	}).Return(&entities.User{ID: userID, IsActive: true}, nil).Once()
	f.roleRepo.On("DemotePrimary", mock.Anything, userID).Run(func(mock.Arguments) {
		order = append(order, "demote")
	}).Return(nil).Once()
	f.roleRepo.On("Assign", mock.Anything, mock.AnythingOfType("*entities.RoleAssignment")).Run(func(mock.Arguments) {
		order = append(order, "assign")
	}).Return(nil).Once()

	_, err := f.uc.AssignRole(context.Background(), userID, entities.RoleVendor, true)
	require.NoError(t, err)
	require.Equal(t, []string{"begin", "lock_user", "demote", "assign"}, order)
	f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRoleUsecase_AssignRole_NonPrimarySkipsDemote(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	f.userRepo.On("GetByIDForUpdate", mock.Anything, userID).Return(&entities.User{ID: userID, IsActive: true}, nil).Once()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.roleRepo.On("Assign", mock.Anything, mock.AnythingOfType("*entities.RoleAssignment")).Return(nil).Once()

	_, err := f.uc.AssignRole(context.Background(), userID, entities.RoleVendor, false)
	require.NoError(t, err)
	f.roleRepo.AssertNotCalled(t, "DemotePrimary", mock.Anything, mock.Anything)
}

func TestRoleUsecase_AssignRole_UnknownRoleAndUser(t *testing.T) {
	f := newRoleFixture()

	_, err := f.uc.AssignRole(context.Background(), uuid.New(), entities.Role("WIZARD"), false)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	missing := uuid.New()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.userRepo.On("GetByIDForUpdate", mock.Anything, missing).Return(nil, domainerrors.ErrNotFound).Once()
	_, err = f.uc.AssignRole(context.Background(), missing, entities.RoleVendor, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	f.roleRepo.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything)
}

func TestRoleUsecase_CreateVendorProfile_RequiresVendorRole(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	f.roleRepo.On("HasActiveRole", mock.Anything, userID, entities.RoleVendor).Return(false, nil).Once()

	_, err := f.uc.CreateVendorProfile(context.Background(), userID, &entities.CreateVendorProfileInput{
		StoreNameEn: "First Store",
		StoreNameAr: "المتجر الأول",
		Slug:        "first-store",
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	f.vendorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoleUsecase_CreateVendorProfile_SecondProfileConflicts(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	f.roleRepo.On("HasActiveRole", mock.Anything, userID, entities.RoleVendor).Return(true, nil)

	// First profile goes through
	f.vendorRepo.On("CountByUserID", mock.Anything, userID).Return(int64(0), nil).Once()
	f.vendorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.VendorProfile")).Return(nil).Once()

	first, err := f.uc.CreateVendorProfile(context.Background(), userID, &entities.CreateVendorProfileInput{
		StoreNameEn: "First Store",
		StoreNameAr: "المتجر الأول",
		Slug:        "first-store",
	})
	require.NoError(t, err)
	assert.Equal(t, "First Store", first.StoreNameEn)

	// Second attempt fails the pre-check fast path
	f.vendorRepo.On("CountByUserID", mock.Anything, userID).Return(int64(1), nil).Once()
	_, err = f.uc.CreateVendorProfile(context.Background(), userID, &entities.CreateVendorProfileInput{
		StoreNameEn: "Second Store",
		StoreNameAr: "المتجر الثاني",
		Slug:        "second-store",
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	f.vendorRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestRoleUsecase_CreateVendorProfile_LostRaceSurfacesConflict(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	// Pre-check sees nothing, but the storage unique constraint trips: the
	// constraint, not the pre-check, is the source of truth.
	f.roleRepo.On("HasActiveRole", mock.Anything, userID, entities.RoleVendor).Return(true, nil).Once()
	f.vendorRepo.On("CountByUserID", mock.Anything, userID).Return(int64(0), nil).Once()
	f.vendorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.VendorProfile")).Return(domainerrors.ErrConflict).Once()

	_, err := f.uc.CreateVendorProfile(context.Background(), userID, &entities.CreateVendorProfileInput{
		StoreNameEn: "Raced Store",
		StoreNameAr: "متجر متسابق",
		Slug:        "raced-store",
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestRoleUsecase_RevokeRole(t *testing.T) {
	f := newRoleFixture()
	userID := uuid.New()

	f.roleRepo.On("Deactivate", mock.Anything, userID, entities.RoleVendor).Return(nil).Once()
	require.NoError(t, f.uc.RevokeRole(context.Background(), userID, entities.RoleVendor))

	err := f.uc.RevokeRole(context.Background(), userID, entities.Role("WIZARD"))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}
