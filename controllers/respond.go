package controllers

import (
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/utils"
)

// respondError writes err as the JSON error envelope
func respondError(c *gin.Context, err error) {
	apiErr := utils.AsAPIError(err)
	if apiErr.Kind == utils.KindServer {
		slog.Error("Request failed", "code", apiErr.Code, "path", c.Request.URL.Path, "error", apiErr.Err)
	}
	c.JSON(apiErr.Status(), utils.ErrorBody(apiErr))
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, utils.SuccessBody(data))
}

// bindError reports a request body that could not be parsed
func bindError(err error) *utils.APIError {
	apiErr := utils.NewValidationError("VALIDATION_ERROR", "Invalid request data")
	apiErr.Details = err.Error()
	return apiErr
}

// idParam parses a numeric path parameter
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError("INVALID_ID", "Invalid "+name)
	}
	return uint(id), nil
}

// bindJSON decodes the request body into req; an empty body leaves req zero-valued
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return bindError(err)
	}
	return nil
}
