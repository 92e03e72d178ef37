package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/kendall-kelly/furniture-store-api/utils"
)

// ModelFileService handles 3D model files attached to furniture
type ModelFileService interface {
	// UploadModel validates and stores a model file, returns the storage key
	UploadModel(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetModelURL generates a URL for downloading a stored model
	GetModelURL(ctx context.Context, key string) (string, error)

	// DeleteModel removes a model from storage
	DeleteModel(ctx context.Context, key string) error
}

// StorageModelService implements ModelFileService on top of a FileStorage
type StorageModelService struct {
	storage FileStorage
}

var modelServiceInstance ModelFileService

// NewModelFileService creates a model service over the given storage
func NewModelFileService(storage FileStorage) *StorageModelService {
	return &StorageModelService{storage: storage}
}

// InitModelFileService initializes the process-wide model service
func InitModelFileService(storage FileStorage) ModelFileService {
	modelServiceInstance = NewModelFileService(storage)
	return modelServiceInstance
}

// GetModelFileService returns the initialized model service instance
func GetModelFileService() ModelFileService {
	return modelServiceInstance
}

// SetModelFileService sets the model service instance (primarily for testing)
func SetModelFileService(service ModelFileService) {
	modelServiceInstance = service
}

// UploadModel validates the file and stores it
func (s *StorageModelService) UploadModel(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateModelFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.storage.UploadFile(ctx, fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload model: %w", err)
	}
	return key, nil
}

// GetModelURL returns a download URL, or "" when key is empty
func (s *StorageModelService) GetModelURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.storage.GetFileURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate model URL: %w", err)
	}
	return url, nil
}

// DeleteModel deletes a stored model
func (s *StorageModelService) DeleteModel(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.storage.DeleteFile(ctx, key); err != nil {
		return fmt.Errorf("failed to delete model: %w", err)
	}
	return nil
}
