package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxModelFileSize is 50MB in bytes
	MaxModelFileSize = 50 * 1024 * 1024
)

// AllowedModelFormats are the accepted 3D model file extensions
var AllowedModelFormats = []string{".glb", ".gltf", ".obj", ".fbx", ".stl", ".usdz"}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *FileUploadError) Error() string {
	return e.Message
}

// ModelContentType returns the MIME type used when storing a 3D model file
func ModelContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".glb":
		return "model/gltf-binary"
	case ".gltf":
		return "model/gltf+json"
	case ".obj":
		return "model/obj"
	case ".stl":
		return "model/stl"
	case ".usdz":
		return "model/vnd.usdz+zip"
	default:
		return "application/octet-stream"
	}
}

// IsAllowedModelFile reports whether filename has an accepted 3D model extension
func IsAllowedModelFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedModelFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateModelFile validates the uploaded 3D model file format and size
func ValidateModelFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxModelFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxModelFileSize/(1024*1024)),
		}
	}

	if !IsAllowedModelFile(fileHeader.Filename) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedModelFormats, ", ")),
		}
	}

	return nil
}

// StoredFileName builds a collision-free file name that keeps the original extension
func StoredFileName(original string) string {
	return fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(original)))
}

// SaveUploadedFile saves the uploaded file to the local filesystem
// Returns the file name relative to uploadDir
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir string) (filename string, err error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename = StoredFileName(fileHeader.Filename)
	fullPath := filepath.Join(uploadDir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// GetUploadURL returns the URL path for accessing a locally stored upload
func GetUploadURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/uploads/%s", filename)
}
