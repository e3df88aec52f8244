package usecases

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/domain/repositories"
	"github.com/pro324test/store-sub001/pkg/crypto"
	"github.com/pro324test/store-sub001/pkg/jwt"
	"github.com/pro324test/store-sub001/pkg/logger"
	redispkg "github.com/pro324test/store-sub001/pkg/redis"
)

// AuthUsecase is the session orchestrator: the one component callers talk to.
// It composes the credential store, role ledger and token service into
// register, login, refresh and logout, and owns the only retry/fallback
// behavior in the core.
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	roleRepo     repositories.RoleAssignmentRepository
	customerRepo repositories.CustomerProfileRepository
	tokenService *TokenService
	jwtService   *jwt.Service
	uow          repositories.UnitOfWork
	cache        *redispkg.IdentityCache
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleAssignmentRepository,
	customerRepo repositories.CustomerProfileRepository,
	tokenService *TokenService,
	jwtService *jwt.Service,
	uow repositories.UnitOfWork,
	cache *redispkg.IdentityCache,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		customerRepo: customerRepo,
		tokenService: tokenService,
		jwtService:   jwtService,
		uow:          uow,
		cache:        cache,
	}
}

// Register creates the user, the default primary CUSTOMER role and the
// customer profile in one transaction, then issues tokens. A partially
// created user (user without role) is never observable.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Phone:        input.Phone,
		FullName:     input.FullName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if input.Email != "" {
		user.Email = null.StringFrom(input.Email)
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		assignment := &entities.RoleAssignment{
			UserID:    user.ID,
			Role:      entities.RoleCustomer,
			IsActive:  true,
			IsPrimary: true,
		}
		if err := u.roleRepo.Assign(txCtx, assignment); err != nil {
			return err
		}
		user.Roles = []entities.RoleAssignment{*assignment}
		return u.customerRepo.Create(txCtx, &entities.CustomerProfile{
			UserID:   user.ID,
			IsActive: true,
		})
	})
	if err != nil {
		return nil, mapStorageErr(err)
	}

	pair, err := u.tokenService.Issue(ctx, user)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	logger.Info(ctx, "user registered", zap.String("user_id", user.ID.String()))
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// Login verifies the password and issues a token pair. Unknown phone numbers
// and wrong passwords both come back as InvalidCredentials; the caller can
// not tell them apart.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	user, err := u.userRepo.GetByPhone(ctx, input.Phone)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, mapStorageErr(err)
	}

	if !user.IsActive || !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	pair, err := u.tokenService.Issue(ctx, user)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if err := u.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to record last login", zap.Error(err))
	}

	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// RefreshTokens rotates the refresh token and returns the new pair
func (u *AuthUsecase) RefreshTokens(ctx context.Context, refreshToken string) (*entities.TokenPair, error) {
	return u.tokenService.Rotate(ctx, refreshToken)
}

// Logout revokes the refresh token best-effort. The caller's session ends
// regardless; a stale refresh token is bounded by its TTL, not a correctness
// problem.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := u.tokenService.Revoke(ctx, refreshToken); err != nil {
		logger.Warn(ctx, "logout revoke failed", zap.Error(err))
	}
}

// Me resolves the current identity from a valid access token, re-reading the
// ledger so role changes are visible immediately rather than at token expiry.
func (u *AuthUsecase) Me(ctx context.Context, accessToken string) (*entities.User, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}
	return u.GetUserByID(ctx, claims.UserID)
}

// GetUserByID loads a user through the identity cache
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	if cached, ok := u.cachedIdentity(ctx, id); ok {
		return cached, nil
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUnauthorized
	}

	u.storeIdentity(ctx, user)
	return user, nil
}

// ListUsers returns users matching the search term on phone or full name,
// all users when the term is empty
func (u *AuthUsecase) ListUsers(ctx context.Context, search string) ([]*entities.User, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	users, err := u.userRepo.List(ctx, search)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return users, nil
}

// UpdateProfile changes the user's own record. Staff may edit any user;
// everyone else only themselves.
func (u *AuthUsecase) UpdateProfile(ctx context.Context, callerID, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	if callerID != userID {
		isStaff, err := u.roleRepo.HasActiveRole(ctx, callerID, entities.RoleSystemStaff)
		if err != nil {
			return nil, mapStorageErr(err)
		}
		if !isStaff {
			return nil, domainerrors.ErrForbidden
		}
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = null.StringFrom(input.Email)
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, mapStorageErr(err)
	}

	u.invalidateIdentity(ctx, userID)
	return user, nil
}

func (u *AuthUsecase) cachedIdentity(ctx context.Context, id uuid.UUID) (*entities.User, bool) {
	if u.cache == nil || redispkg.GetClient() == nil {
		return nil, false
	}
	payload, ok, err := u.cache.Get(ctx, id.String())
	if err != nil || !ok {
		return nil, false
	}
	var user entities.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (u *AuthUsecase) storeIdentity(ctx context.Context, user *entities.User) {
	if u.cache == nil || redispkg.GetClient() == nil {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := u.cache.Put(ctx, user.ID.String(), payload); err != nil {
		logger.Debug(ctx, "identity cache put failed", zap.Error(err))
	}
}

func (u *AuthUsecase) invalidateIdentity(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil || redispkg.GetClient() == nil {
		return
	}
	_ = u.cache.Invalidate(ctx, userID.String())
}
