package gcsuploader

import (
	"context"

	"github.com/dvloznov/stripe-recon/internal/gcs"
)

// Re-export interface from shared package for convenience
type StorageService = gcs.StorageService

// GCSStorageService is the concrete implementation of StorageService that
// interacts with Google Cloud Storage.
type GCSStorageService struct{}

// NewGCSStorageService creates a new instance of GCSStorageService.
func NewGCSStorageService() *GCSStorageService {
	return &GCSStorageService{}
}

// UploadFile delegates to the package-level UploadFile function.
func (s *GCSStorageService) UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	return UploadFile(ctx, bucketName, objectName, filePath)
}
