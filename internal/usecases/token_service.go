package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/domain/repositories"
	"github.com/pro324test/store-sub001/pkg/crypto"
	"github.com/pro324test/store-sub001/pkg/jwt"
	"github.com/pro324test/store-sub001/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenService mints access tokens and manages the rotating refresh tokens
// backing them. Refresh tokens are single-use; a replayed token revokes its
// whole family.
type TokenService struct {
	refreshRepo   repositories.RefreshTokenRepository
	userRepo      repositories.UserRepository
	uow           repositories.UnitOfWork
	jwtService    *jwt.Service
	refreshExpiry time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(
	refreshRepo repositories.RefreshTokenRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.Service,
	refreshExpiry time.Duration,
) *TokenService {
	return &TokenService{
		refreshRepo:   refreshRepo,
		userRepo:      userRepo,
		uow:           uow,
		jwtService:    jwtService,
		refreshExpiry: refreshExpiry,
	}
}

// Issue mints a token pair for the user, starting a fresh token family
func (s *TokenService) Issue(ctx context.Context, user *entities.User) (*entities.TokenPair, error) {
	accessToken, err := s.mintAccess(user)
	if err != nil {
		return nil, err
	}

	opaque, err := crypto.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	refresh := &entities.RefreshToken{
		UserID:    user.ID,
		Token:     opaque,
		FamilyID:  uuid.New(),
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}
	if err := s.refreshRepo.Create(ctx, refresh); err != nil {
		return nil, err
	}

	return &entities.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: opaque,
	}, nil
}

// Rotate consumes the old refresh token and issues a new pair. The consume is
// a conditional update, so of two racing rotations exactly one succeeds; the
// other gets InvalidToken. A token that was already consumed is treated as a
// replay and takes its whole family down.
func (s *TokenService) Rotate(ctx context.Context, oldToken string) (*entities.TokenPair, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	now := time.Now()

	existing, err := s.refreshRepo.GetByToken(ctx, oldToken)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidToken
		}
		return nil, mapStorageErr(err)
	}

	if existing.ConsumedAt.Valid {
		// Replay of a rotated token: assume the family is compromised.
		logger.Warn(ctx, "replayed refresh token, revoking family",
			zap.String("user_id", existing.UserID.String()),
			zap.String("family_id", existing.FamilyID.String()),
		)
		if err := s.refreshRepo.RevokeFamily(ctx, existing.FamilyID, now); err != nil {
			return nil, mapStorageErr(err)
		}
		return nil, domainerrors.ErrInvalidToken
	}
	if !existing.Usable(now) {
		return nil, domainerrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, existing.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidToken
		}
		return nil, mapStorageErr(err)
	}
	if !user.IsActive {
		return nil, domainerrors.ErrInvalidToken
	}

	accessToken, err := s.mintAccess(user)
	if err != nil {
		return nil, err
	}
	opaque, err := crypto.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	// Consume-and-replace atomically; the replacement stays in the family.
	err = s.uow.Do(ctx, func(txCtx context.Context) error {
		won, err := s.refreshRepo.Consume(txCtx, oldToken, now)
		if err != nil {
			return err
		}
		if !won {
			return domainerrors.ErrInvalidToken
		}
		return s.refreshRepo.Create(txCtx, &entities.RefreshToken{
			UserID:    existing.UserID,
			Token:     opaque,
			FamilyID:  existing.FamilyID,
			ExpiresAt: now.Add(s.refreshExpiry),
		})
	})
	if err != nil {
		return nil, mapStorageErr(err)
	}

	return &entities.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: opaque,
	}, nil
}

// Revoke marks the refresh token revoked without replacement; used on logout.
// Revoking an already dead or unknown token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()
	return mapStorageErr(s.refreshRepo.Revoke(ctx, token, time.Now()))
}

func (s *TokenService) mintAccess(user *entities.User) (string, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.ActiveRoles() {
		roles = append(roles, string(r))
	}
	primary := ""
	if p, ok := user.PrimaryRole(); ok {
		primary = string(p)
	}
	return s.jwtService.GenerateAccessToken(user.ID, user.Phone, roles, primary)
}
