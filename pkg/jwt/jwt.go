package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents access token claims. Roles is a snapshot at issuance;
// revocations become visible once the token expires.
type Claims struct {
	UserID  uuid.UUID `json:"userId"`
	Phone   string    `json:"phone"`
	Roles   []string  `json:"roles"`
	Primary string    `json:"primaryRole,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and validates access tokens. Refresh tokens are opaque and
// stored server-side, so only the access half lives here.
type Service struct {
	secret       []byte
	accessExpiry time.Duration
}

// NewService creates a new JWT service
func NewService(secret string, accessExpiry time.Duration) *Service {
	return &Service{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
	}
}

// AccessExpiry returns the configured access token lifetime
func (s *Service) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// GenerateAccessToken mints a signed access token for the user
func (s *Service) GenerateAccessToken(userID uuid.UUID, phone string, roles []string, primary string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		Phone:   phone,
		Roles:   roles,
		Primary: primary,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates an access token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
