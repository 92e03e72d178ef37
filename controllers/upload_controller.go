package controllers

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/furniture-store-api/config"
	"github.com/kendall-kelly/furniture-store-api/utils"
)

const modelCacheControl = "public, max-age=86400"

func uploadDir() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return "./uploads"
}

// checkModelFilename rejects names that could escape the upload directory or aren't model files
func checkModelFilename(name string) error {
	switch {
	case name == "":
		return utils.NewValidationError("INVALID_REQUEST", "Filename is required")
	case strings.Contains(name, ".."), strings.ContainsAny(name, `/\`):
		return utils.NewValidationError("INVALID_FILENAME", "Invalid filename")
	case !utils.IsAllowedModelFile(name):
		return utils.NewValidationError("INVALID_FILE_TYPE",
			"Only "+strings.Join(utils.AllowedModelFormats, ", ")+" files are served")
	}
	return nil
}

// GetUploadedModel handles GET /api/v1/uploads/:filename - serves locally stored 3D model files
func GetUploadedModel(c *gin.Context) {
	name := c.Param("filename")
	if err := checkModelFilename(name); err != nil {
		respondError(c, err)
		return
	}

	path := filepath.Join(uploadDir(), name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		respondError(c, utils.NewNotFoundError("FILE_NOT_FOUND", "Model file not found"))
		return
	}
	if err != nil {
		respondError(c, utils.NewServerError("FILE_READ_ERROR", "Failed to read model file", err))
		return
	}

	c.Header("Content-Type", utils.ModelContentType(name))
	c.Header("Cache-Control", modelCacheControl)
	c.File(path)
}
