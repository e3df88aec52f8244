package response

import (
	"github.com/gin-gonic/gin"

	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error onto its HTTP shape. Raw storage errors never
// reach the wire; anything unrecognized becomes an opaque internal error.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)
	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithStatus sends an error response with a specific status and message
func ErrorWithStatus(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
