package response

import "github.com/gin-gonic/gin"

// The service contract keeps non-success bodies to a bare {message} object;
// success payloads are written as-is.

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"message": message})
}
