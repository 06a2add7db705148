package response

import (
	"github.com/gin-gonic/gin"
)

// The dashboard's front end expects flat payloads: successful calls return
// the documented shape directly and every failure is `{"error": string}`.

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// AbortError is Error for middleware: it also stops the handler chain.
func AbortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
