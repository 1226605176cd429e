package response

import "github.com/gin-gonic/gin"

// Success writes the standard envelope around a payload.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes the failure envelope. An optional first variadic value is
// attached as error details (field maps from binding validation).
func Error(c *gin.Context, statusCode int, code, message string, details ...any) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 && details[0] != nil {
		body["details"] = details[0]
	}
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   body,
	})
}
