package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader handles image uploads to AWS S3
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// UploadResult contains the result of an S3 upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(region, bucket, baseURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}, nil
}

// UploadEntityImage uploads an entity image keyed by kind and entity ID.
// Re-uploads for the same entity overwrite the previous object
func (u *S3Uploader) UploadEntityImage(ctx context.Context, imageData []byte, kind, entityID, originalFilename string) (*UploadResult, error) {
	extension := filepath.Ext(originalFilename)
	if extension == "" {
		extension = ".jpg"
	}

	key := fmt.Sprintf("%s/%s%s", kind, entityID, extension)
	return u.putImage(ctx, imageData, key, extension, map[string]string{
		"entity-kind":       kind,
		"entity-id":         entityID,
		"original-filename": originalFilename,
		"upload-timestamp":  time.Now().Format(time.RFC3339),
	})
}

// UploadAvatar uploads a user profile picture
func (u *S3Uploader) UploadAvatar(ctx context.Context, imageData []byte, userID, originalFilename string) (*UploadResult, error) {
	extension := filepath.Ext(originalFilename)
	if extension == "" {
		extension = ".jpg"
	}

	key := fmt.Sprintf("avatars/%s%s", userID, extension)
	return u.putImage(ctx, imageData, key, extension, map[string]string{
		"user-id":           userID,
		"original-filename": originalFilename,
		"upload-timestamp":  time.Now().Format(time.RFC3339),
	})
}

func (u *S3Uploader) putImage(ctx context.Context, imageData []byte, key, extension string, metadata map[string]string) (*UploadResult, error) {
	putObjectInput := &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(imageData),
		ContentType:  aws.String(getContentType(extension)),
		CacheControl: aws.String("max-age=3600"),
		Metadata:     metadata,
	}

	_, err := u.client.PutObject(ctx, putObjectInput)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(u.baseURL, "/"), key)

	return &UploadResult{
		Key:    key,
		URL:    publicURL,
		Bucket: u.bucket,
		Region: u.region,
		Size:   int64(len(imageData)),
	}, nil
}

// DeleteFile deletes a file from S3
func (u *S3Uploader) DeleteFile(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// CheckBucketAccess verifies that we can access the S3 bucket
func (u *S3Uploader) CheckBucketAccess(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", u.bucket, err)
	}

	return nil
}

// getContentType returns the appropriate MIME type for file extensions
func getContentType(extension string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
