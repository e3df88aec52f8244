package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// RefreshToken is the stateful half of a token pair. Tokens are single-use:
// rotation consumes the row and issues a replacement in the same family, so a
// replayed token identifies its whole descendant chain for revocation.
type RefreshToken struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Token      string    `json:"-"`
	FamilyID   uuid.UUID `json:"familyId"`
	ExpiresAt  time.Time `json:"expiresAt"`
	ConsumedAt null.Time `json:"consumedAt,omitempty"`
	RevokedAt  null.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Usable reports whether the token can still be rotated
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.ConsumedAt.Valid && !t.RevokedAt.Valid && now.Before(t.ExpiresAt)
}

// TokenPair represents access and refresh tokens issued together
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshInput represents input for token rotation
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutInput represents input for logout
type LogoutInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
