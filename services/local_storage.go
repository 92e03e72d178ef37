package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/furniture-store-api/utils"
)

// LocalFileStorage stores files on local disk and serves them from /api/v1/uploads
type LocalFileStorage struct {
	dir string
}

// NewLocalFileStorage creates a storage rooted at dir
func NewLocalFileStorage(dir string) *LocalFileStorage {
	return &LocalFileStorage{dir: dir}
}

// Dir returns the directory files are written to
func (s *LocalFileStorage) Dir() string {
	return s.dir
}

// UploadFile writes the file under the storage directory and returns its name
func (s *LocalFileStorage) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	return utils.SaveUploadedFile(fileHeader, s.dir)
}

// GetFileURL returns the API path serving the file
func (s *LocalFileStorage) GetFileURL(ctx context.Context, key string) (string, error) {
	return utils.GetUploadURL(key), nil
}

// DeleteFile removes the file; a missing file is not an error
func (s *LocalFileStorage) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
