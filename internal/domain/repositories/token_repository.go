package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pro324test/store-sub001/internal/domain/entities"
)

// RefreshTokenRepository defines refresh token data operations
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entities.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*entities.RefreshToken, error)
	// Consume marks the token consumed only if it is still unconsumed,
	// unrevoked and unexpired, and reports whether this call won. Racing
	// rotations of the same token resolve here, not with a lock.
	Consume(ctx context.Context, token string, now time.Time) (bool, error)
	// Revoke marks the token revoked. Revoking an already dead token is a
	// no-op, not an error.
	Revoke(ctx context.Context, token string, now time.Time) error
	// RevokeFamily revokes every token of the family; used when a consumed
	// token is replayed.
	RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error
	// DeleteExpiredBefore removes dead rows older than the cutoff.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
