package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pro324test/store-sub001/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// Mock RoleAssignmentRepository
type MockRoleAssignmentRepository struct {
	mock.Mock
}

func (m *MockRoleAssignmentRepository) Assign(ctx context.Context, assignment *entities.RoleAssignment) error {
	return m.Called(ctx, assignment).Error(0)
}

func (m *MockRoleAssignmentRepository) DemotePrimary(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRoleAssignmentRepository) Deactivate(ctx context.Context, userID uuid.UUID, role entities.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockRoleAssignmentRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]entities.RoleAssignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RoleAssignment), args.Error(1)
}

func (m *MockRoleAssignmentRepository) HasActiveRole(ctx context.Context, userID uuid.UUID, role entities.Role) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleAssignmentRepository) CountActivePrimary(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock VendorProfileRepository
type MockVendorProfileRepository struct {
	mock.Mock
}

func (m *MockVendorProfileRepository) Create(ctx context.Context, profile *entities.VendorProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockVendorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.VendorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VendorProfile), args.Error(1)
}

func (m *MockVendorProfileRepository) GetBySlug(ctx context.Context, slug string) (*entities.VendorProfile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VendorProfile), args.Error(1)
}

func (m *MockVendorProfileRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CustomerProfileRepository
type MockCustomerProfileRepository struct {
	mock.Mock
}

func (m *MockCustomerProfileRepository) Create(ctx context.Context, profile *entities.CustomerProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockCustomerProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.CustomerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CustomerProfile), args.Error(1)
}

func (m *MockCustomerProfileRepository) UpdateLanguage(ctx context.Context, userID uuid.UUID, language string) error {
	return m.Called(ctx, userID, language).Error(0)
}

// Mock OneTimeCodeRepository
type MockOneTimeCodeRepository struct {
	mock.Mock
}

func (m *MockOneTimeCodeRepository) Create(ctx context.Context, code *entities.OneTimeCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockOneTimeCodeRepository) GetLatestUnconsumed(ctx context.Context, phone string, purpose entities.OtpPurpose) (*entities.OneTimeCode, error) {
	args := m.Called(ctx, phone, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OneTimeCode), args.Error(1)
}

func (m *MockOneTimeCodeRepository) InvalidateUnconsumed(ctx context.Context, phone string, purpose entities.OtpPurpose) error {
	return m.Called(ctx, phone, purpose).Error(0)
}

func (m *MockOneTimeCodeRepository) Consume(ctx context.Context, id string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

// Mock RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *entities.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*entities.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	args := m.Called(ctx, token, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, token string, now time.Time) error {
	return m.Called(ctx, token, now).Error(0)
}

func (m *MockRefreshTokenRepository) RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error {
	return m.Called(ctx, familyID, now).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// recordingSender captures outgoing SMS messages for assertions
type recordingSender struct {
	messages []string
	phones   []string
	err      error
}

func (s *recordingSender) Send(_ context.Context, phone, message string) error {
	if s.err != nil {
		return s.err
	}
	s.phones = append(s.phones, phone)
	s.messages = append(s.messages, message)
	return nil
}
