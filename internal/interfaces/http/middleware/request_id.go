package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestID attaches a unique ID to each request, honoring an incoming
// X-Request-ID header so IDs survive proxy hops.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		// The logger reads the string "request_id" key from the request
		// context, so the ID has to live there as well as in gin's store.
		ctx := context.WithValue(c.Request.Context(), RequestIDKey, id) //nolint:staticcheck
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
