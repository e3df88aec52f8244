package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/interfaces/http/response"
)

// RoleService manages role grants and vendor storefronts
type RoleService interface {
	AssignRole(ctx context.Context, userID uuid.UUID, role entities.Role, isPrimary bool) (*entities.RoleAssignment, error)
	RevokeRole(ctx context.Context, userID uuid.UUID, role entities.Role) error
	CreateVendorProfile(ctx context.Context, userID uuid.UUID, input *entities.CreateVendorProfileInput) (*entities.VendorProfile, error)
	GetVendorProfile(ctx context.Context, userID uuid.UUID) (*entities.VendorProfile, error)
}

// UserDirectory resolves and searches user records
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	ListUsers(ctx context.Context, search string) ([]*entities.User, error)
}

// AdminHandler handles administrative user and role endpoints. Routes using
// it are mounted behind the SYSTEM_STAFF role check.
type AdminHandler struct {
	roleUsecase RoleService
	userUsecase UserDirectory
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(roleUsecase RoleService, userUsecase UserDirectory) *AdminHandler {
	return &AdminHandler{
		roleUsecase: roleUsecase,
		userUsecase: userUsecase,
	}
}

// AssignRole grants a role to a user
// POST /api/v1/admin/users/:id/roles
func (h *AdminHandler) AssignRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.AssignRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	assignment, err := h.roleUsecase.AssignRole(c.Request.Context(), userID, input.Role, input.IsPrimary)
	if err != nil {
		if err == domainerrors.ErrInvalidInput {
			response.Error(c, domainerrors.BadRequest("Unknown role"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"assignment": assignment,
	})
}

// RevokeRole deactivates a user's role
// DELETE /api/v1/admin/users/:id/roles/:role
func (h *AdminHandler) RevokeRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	role := entities.Role(c.Param("role"))
	if err := h.roleUsecase.RevokeRole(c.Request.Context(), userID, role); err != nil {
		if err == domainerrors.ErrInvalidInput {
			response.Error(c, domainerrors.BadRequest("Unknown role"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Role revoked",
	})
}

// CreateVendorProfile creates a storefront for a user holding the VENDOR role
// POST /api/v1/admin/users/:id/vendor-profile
func (h *AdminHandler) CreateVendorProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.CreateVendorProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.roleUsecase.CreateVendorProfile(c.Request.Context(), userID, &input)
	if err != nil {
		if err == domainerrors.ErrConflict {
			response.Error(c, domainerrors.Conflict("User already has a vendor profile"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"profile": profile,
	})
}

// GetVendorProfile returns a user's storefront
// GET /api/v1/admin/users/:id/vendor-profile
func (h *AdminHandler) GetVendorProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	profile, err := h.roleUsecase.GetVendorProfile(c.Request.Context(), userID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Vendor profile not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"profile": profile,
	})
}

// ListUsers returns users, optionally filtered by a search term on phone or
// full name
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userUsecase.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns a user by ID
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	user, err := h.userUsecase.GetUserByID(c.Request.Context(), userID)
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
