package utils

import "github.com/gin-gonic/gin"

// ErrorBody builds the JSON envelope for a failed request
func ErrorBody(e *APIError) gin.H {
	body := gin.H{
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Details != "" {
		body["details"] = e.Details
	}
	return gin.H{
		"success": false,
		"error":   body,
	}
}

// SuccessBody builds the JSON envelope for a successful request
func SuccessBody(data interface{}) gin.H {
	return gin.H{
		"success": true,
		"data":    data,
	}
}
