package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/interfaces/http/response"
	"github.com/pro324test/store-sub001/internal/observability/metrics"
)

// OtpService issues and verifies one-time codes
type OtpService interface {
	Generate(ctx context.Context, input *entities.GenerateOtpInput) (*entities.OtpResult, error)
	Verify(ctx context.Context, input *entities.VerifyOtpInput) (*entities.OtpResult, error)
}

// OtpHandler handles one-time code endpoints
type OtpHandler struct {
	otpUsecase OtpService
}

// NewOtpHandler creates a new OTP handler
func NewOtpHandler(otpUsecase OtpService) *OtpHandler {
	return &OtpHandler{
		otpUsecase: otpUsecase,
	}
}

// Generate requests a verification code for a phone number
// POST /api/v1/auth/otp/generate
func (h *OtpHandler) Generate(c *gin.Context) {
	var input entities.GenerateOtpInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.otpUsecase.Generate(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrInvalidInput {
			response.Error(c, domainerrors.BadRequest("Unknown verification purpose"))
			return
		}
		response.Error(c, err)
		return
	}

	if result.Success {
		metrics.OtpIssuedTotal.WithLabelValues(string(input.Purpose)).Inc()
		response.Success(c, http.StatusOK, result)
		return
	}

	// Cooldown hit: the request was understood but deliberately throttled
	response.Success(c, http.StatusTooManyRequests, result)
}

// Verify checks a verification code and consumes it on success
// POST /api/v1/auth/otp/verify
func (h *OtpHandler) Verify(c *gin.Context) {
	var input entities.VerifyOtpInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.otpUsecase.Verify(c.Request.Context(), &input)
	if err != nil {
		switch err {
		case domainerrors.ErrInvalidInput:
			response.Error(c, domainerrors.BadRequest("Unknown verification purpose"))
		case domainerrors.ErrNotFound:
			response.Error(c, domainerrors.BadRequest("No pending verification code"))
		case domainerrors.ErrExpired:
			response.Error(c, domainerrors.BadRequest("Verification code has expired"))
		case domainerrors.ErrCodeMismatch:
			response.Error(c, domainerrors.BadRequest("Incorrect verification code"))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}
