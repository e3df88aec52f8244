package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	"github.com/pro324test/store-sub001/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey = "userId"
	// UserPhoneKey is the context key for the authenticated phone number
	UserPhoneKey = "userPhone"
	// UserRolesKey is the context key for the active role snapshot
	UserRolesKey = "userRoles"
	// PrimaryRoleKey is the context key for the primary role
	PrimaryRoleKey = "primaryRole"
	// AccessTokenKey is the context key for the raw bearer token
	AccessTokenKey = "accessToken"
)

// Auth validates the bearer token and loads its claims into the request
// context. The role snapshot in the token is what downstream RequireRole
// checks see; it is as fresh as the access token, no fresher.
func Auth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserPhoneKey, claims.Phone)
		c.Set(UserRolesKey, claims.Roles)
		c.Set(PrimaryRoleKey, claims.Primary)
		c.Set(AccessTokenKey, tokenString)

		c.Next()
	}
}

// GetUserID gets the authenticated user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// GetUserRoles gets the active role snapshot from context
func GetUserRoles(c *gin.Context) ([]string, bool) {
	val, exists := c.Get(UserRolesKey)
	if !exists {
		return nil, false
	}
	roles, ok := val.([]string)
	return roles, ok
}

// GetAccessToken gets the raw bearer token from context
func GetAccessToken(c *gin.Context) (string, bool) {
	val, exists := c.Get(AccessTokenKey)
	if !exists {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

// RequireRole passes requests whose token carries at least one of the given
// roles and rejects the rest with 403.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, exists := GetUserRoles(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User roles not found",
			})
			return
		}

		for _, required := range roles {
			for _, held := range userRoles {
				if held == string(required) {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}

// RequireStaff requires an active SYSTEM_STAFF role
func RequireStaff() gin.HandlerFunc {
	return RequireRole(entities.RoleSystemStaff)
}
