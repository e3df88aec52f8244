package main

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pro324test/store-sub001/internal/interfaces/http/handlers"
	"github.com/pro324test/store-sub001/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	otpHandler     *handlers.OtpHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.PUT("/users/:id", d.authMiddleware, d.authHandler.UpdateProfile)

			// OTP routes (public; throttled by the resend cooldown)
			otp := auth.Group("/otp")
			{
				otp.POST("/generate", d.otpHandler.Generate)
				otp.POST("/verify", d.otpHandler.Verify)
			}
		}

		// Admin routes (staff only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireStaff())
		{
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/users/:id", d.adminHandler.GetUser)
			admin.POST("/users/:id/roles", d.adminHandler.AssignRole)
			admin.DELETE("/users/:id/roles/:role", d.adminHandler.RevokeRole)
			admin.POST("/users/:id/vendor-profile", d.adminHandler.CreateVendorProfile)
			admin.GET("/users/:id/vendor-profile", d.adminHandler.GetVendorProfile)
		}
	}
}

func registerHealthRoute(r *gin.Engine, db *sql.DB) {
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if db != nil {
			if err := db.Ping(); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
