package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	"github.com/pro324test/store-sub001/pkg/jwt"
)

func TestAuth_BearerFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewService("secret", time.Minute)
	userID := uuid.New()

	var seenID uuid.UUID
	var seenRoles []string
	r := gin.New()
	r.Use(Auth(jwtService))
	r.GET("/me", func(c *gin.Context) {
		seenID, _ = GetUserID(c)
		seenRoles, _ = GetUserRoles(c)
		c.Status(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+"garbage")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredService := jwt.NewService("secret", -time.Second)
		token, err := expiredService.GenerateAccessToken(userID, "+218910000000", []string{"CUSTOMER"}, "CUSTOMER")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "expired")
	})

	t.Run("valid token loads claims", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "+218910000000", []string{"CUSTOMER", "VENDOR"}, "VENDOR")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, userID, seenID)
		require.ElementsMatch(t, []string{"CUSTOMER", "VENDOR"}, seenRoles)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewService("secret", time.Minute)

	r := gin.New()
	r.Use(Auth(jwtService))
	staff := r.Group("/admin", RequireStaff())
	staff.GET("/users", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	vendorOrStaff := r.Group("/store", RequireRole(entities.RoleVendor, entities.RoleSystemStaff))
	vendorOrStaff.GET("/profile", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	get := func(path string, roles []string, primary string) *httptest.ResponseRecorder {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "+218910000000", roles, primary)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("staff passes staff gate", func(t *testing.T) {
		w := get("/admin/users", []string{"CUSTOMER", "SYSTEM_STAFF"}, "SYSTEM_STAFF")
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("customer blocked from staff gate", func(t *testing.T) {
		w := get("/admin/users", []string{"CUSTOMER"}, "CUSTOMER")
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		w := get("/store/profile", []string{"CUSTOMER", "VENDOR"}, "CUSTOMER")
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("no roles in token", func(t *testing.T) {
		w := get("/store/profile", nil, "")
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireRole_WithoutAuthContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// RequireRole mounted without Auth in front sees no role snapshot
	r := gin.New()
	r.GET("/admin", RequireStaff(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
