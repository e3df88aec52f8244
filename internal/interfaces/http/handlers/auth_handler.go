package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/interfaces/http/middleware"
	"github.com/pro324test/store-sub001/internal/interfaces/http/response"
	"github.com/pro324test/store-sub001/internal/observability/metrics"
)

// AuthService is the slice of the auth usecase the handler depends on
type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entities.TokenPair, error)
	Logout(ctx context.Context, refreshToken string)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, callerID, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		if err == domainerrors.ErrAlreadyExists {
			response.Error(c, domainerrors.Conflict("Phone number already registered"))
			return
		}
		response.Error(c, err)
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	response.Success(c, http.StatusCreated, gin.H{
		"accessToken":  authResponse.AccessToken,
		"refreshToken": authResponse.RefreshToken,
		"user":         authResponse.User,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if err == domainerrors.ErrInvalidCredentials {
			response.Error(c, domainerrors.Unauthorized("Invalid phone number or password"))
			return
		}
		response.Error(c, err)
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  authResponse.AccessToken,
		"refreshToken": authResponse.RefreshToken,
		"user":         authResponse.User,
	})
}

// Refresh handles refresh token rotation
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input entities.RefreshInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	pair, err := h.authUsecase.RefreshTokens(c.Request.Context(), input.RefreshToken)
	if err != nil {
		metrics.TokenRotationsTotal.WithLabelValues("failure").Inc()
		response.Error(c, domainerrors.Unauthorized("Invalid or expired refresh token"))
		return
	}

	metrics.TokenRotationsTotal.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout revokes the refresh token. The response is 200 regardless of the
// revoke outcome; the client discards its session either way.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input entities.LogoutInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	h.authUsecase.Logout(c.Request.Context(), input.RefreshToken)

	response.Success(c, http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// GetMe returns current authenticated user details
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateProfile updates the caller's own record, or any record when the
// caller holds SYSTEM_STAFF
// PUT /api/v1/auth/users/:id
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), callerID, targetID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": user,
	})
}
