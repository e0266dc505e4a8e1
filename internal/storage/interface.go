package storage

import "context"

// ImageUploader defines the interface for image uploads
// This interface allows for easy mocking in tests
type ImageUploader interface {
	UploadEntityImage(ctx context.Context, imageData []byte, kind, entityID, originalFilename string) (*UploadResult, error)
	UploadAvatar(ctx context.Context, imageData []byte, userID, originalFilename string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Ensure S3Uploader implements ImageUploader
var _ ImageUploader = (*S3Uploader)(nil)
