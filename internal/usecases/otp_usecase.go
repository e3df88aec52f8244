package usecases

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/domain/repositories"
	"github.com/pro324test/store-sub001/pkg/crypto"
	"github.com/pro324test/store-sub001/pkg/logger"
	redispkg "github.com/pro324test/store-sub001/pkg/redis"
)

const (
	// OtpExpiry is the default validity window of a one-time code
	OtpExpiry = 5 * time.Minute
	// OtpResendCooldown is the default throttle on repeated generation for
	// the same pair
	OtpResendCooldown = 60 * time.Second
)

// SmsSender delivers a message to a phone number out-of-band
type SmsSender interface {
	Send(ctx context.Context, phone, message string) error
}

// OtpUsecase manages the one-time code lifecycle. Delivery is delegated to
// the SMS channel; only generation, storage and consumption live here.
type OtpUsecase struct {
	otpRepo  repositories.OneTimeCodeRepository
	sender   SmsSender
	expiry   time.Duration
	cooldown time.Duration
}

// NewOtpUsecase creates a new OTP usecase. Zero durations fall back to the
// package defaults.
func NewOtpUsecase(otpRepo repositories.OneTimeCodeRepository, sender SmsSender, expiry, cooldown time.Duration) *OtpUsecase {
	if expiry <= 0 {
		expiry = OtpExpiry
	}
	if cooldown <= 0 {
		cooldown = OtpResendCooldown
	}
	return &OtpUsecase{
		otpRepo:  otpRepo,
		sender:   sender,
		expiry:   expiry,
		cooldown: cooldown,
	}
}

// Generate creates a code for the (phone, purpose) pair, invalidating any
// prior unconsumed code so codes replace rather than stack.
func (u *OtpUsecase) Generate(ctx context.Context, input *entities.GenerateOtpInput) (*entities.OtpResult, error) {
	if !input.Purpose.IsValid() {
		return nil, domainerrors.ErrInvalidInput
	}

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	if redispkg.GetClient() != nil {
		key := fmt.Sprintf("otp:cooldown:%s:%s", input.Phone, input.Purpose)
		acquired, err := redispkg.SetNX(ctx, key, "1", u.cooldown)
		if err != nil {
			logger.Warn(ctx, "otp cooldown check failed", zap.Error(err))
		} else if !acquired {
			return &entities.OtpResult{
				Success: false,
				Message: "A code was sent recently. Please wait before requesting another.",
			}, nil
		}
	}

	code, err := crypto.GenerateNumericCode()
	if err != nil {
		return nil, err
	}

	if err := u.otpRepo.InvalidateUnconsumed(ctx, input.Phone, input.Purpose); err != nil {
		return nil, mapStorageErr(err)
	}

	otp := &entities.OneTimeCode{
		Phone:     input.Phone,
		Purpose:   input.Purpose,
		Code:      code,
		ExpiresAt: time.Now().Add(u.expiry),
	}
	if err := u.otpRepo.Create(ctx, otp); err != nil {
		return nil, mapStorageErr(err)
	}

	if err := u.sender.Send(ctx, input.Phone, "Your verification code is "+code); err != nil {
		// Delivery is best-effort from the verifier's perspective; the code
		// row already exists and can be re-requested after the cooldown.
		logger.Warn(ctx, "otp delivery failed", zap.Error(err), zap.String("phone", input.Phone))
	}

	return &entities.OtpResult{
		Success: true,
		Message: "Verification code sent.",
	}, nil
}

// Verify checks the code for the pair and consumes it exactly once. Expiry is
// checked lazily here; expired rows are never purged eagerly.
func (u *OtpUsecase) Verify(ctx context.Context, input *entities.VerifyOtpInput) (*entities.OtpResult, error) {
	if !input.Purpose.IsValid() {
		return nil, domainerrors.ErrInvalidInput
	}

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	now := time.Now()

	otp, err := u.otpRepo.GetLatestUnconsumed(ctx, input.Phone, input.Purpose)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if now.After(otp.ExpiresAt) {
		return nil, domainerrors.ErrExpired
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(input.Code)) != 1 {
		return nil, domainerrors.ErrCodeMismatch
	}

	won, err := u.otpRepo.Consume(ctx, otp.ID.String(), now)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if !won {
		// A concurrent verify got there first; this attempt must not
		// silently re-succeed.
		return nil, domainerrors.ErrNotFound
	}

	return &entities.OtpResult{
		Success: true,
		Message: "Phone number verified.",
	}, nil
}
