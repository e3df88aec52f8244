package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// OtpPurpose scopes a one-time code to the flow it proves
type OtpPurpose string

const (
	OtpPurposeRegistration  OtpPurpose = "REGISTRATION"
	OtpPurposeLogin         OtpPurpose = "LOGIN"
	OtpPurposePasswordReset OtpPurpose = "PASSWORD_RESET"
)

// IsValid reports whether the purpose is known
func (p OtpPurpose) IsValid() bool {
	switch p {
	case OtpPurposeRegistration, OtpPurposeLogin, OtpPurposePasswordReset:
		return true
	}
	return false
}

// OneTimeCode represents a phone verification code. A code is consumed exactly
// once; expired codes are rejected lazily, not purged eagerly.
type OneTimeCode struct {
	ID         uuid.UUID  `json:"id"`
	Phone      string     `json:"phone"`
	Purpose    OtpPurpose `json:"purpose"`
	Code       string     `json:"-"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	ConsumedAt null.Time  `json:"consumedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// GenerateOtpInput represents input for OTP generation
type GenerateOtpInput struct {
	Phone   string     `json:"phone" binding:"required,e164"`
	Purpose OtpPurpose `json:"purpose" binding:"required"`
}

// VerifyOtpInput represents input for OTP verification
type VerifyOtpInput struct {
	Phone   string     `json:"phone" binding:"required"`
	Code    string     `json:"code" binding:"required,len=6,numeric"`
	Purpose OtpPurpose `json:"purpose" binding:"required"`
}

// OtpResult is the caller-facing outcome of generate/verify
type OtpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
