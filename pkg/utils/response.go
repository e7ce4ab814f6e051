package utils

import "github.com/gin-gonic/gin"

// ErrorResponse writes a JSON error body in the shape the API exposes
// for every failure class: {"error": "..."}.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ErrorResponseWithDetails additionally carries a details list, used by
// validation failures.
func ErrorResponseWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, gin.H{"error": message, "details": details})
}

func SuccessResponse(c *gin.Context, status int, body gin.H) {
	c.JSON(status, body)
}
