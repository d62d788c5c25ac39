package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	appconfig "opinai/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

// PhotoStore persists profile photos and returns a reference to store on the user
type PhotoStore interface {
	Put(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

// objectPutter is the part of *s3.Client the store uses
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PhotoStore uploads photos to an S3-compatible bucket (AWS or MinIO)
type S3PhotoStore struct {
	client   objectPutter
	bucket   string
	endpoint string
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// NewS3PhotoStore builds the S3 client from static credentials
func NewS3PhotoStore(ctx context.Context, cfg appconfig.S3Config) (*S3PhotoStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO
		}
	})
	return &S3PhotoStore{client: client, bucket: cfg.Bucket, endpoint: cfg.Endpoint}, nil
}

// ObjectKey returns a fresh key for a user's photo
func ObjectKey(userID, contentType string) string {
	return fmt.Sprintf("users/%s/photo-%s%s", userID, uuid.NewString(), extensions[contentType])
}

// Put uploads the photo and returns its URL (path-style when a custom endpoint is set)
func (s *S3PhotoStore) Put(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	key := ObjectKey(userID, contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key), nil
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// IsDataURL reports whether s looks like an inline data: URL
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL decodes a base64 data URL such as "data:image/png;base64,iVBOR..."
func ParseDataURL(s string) ([]byte, string, error) {
	if !IsDataURL(s) {
		return nil, "", ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	contentType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 || contentType == "" {
		return nil, "", ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return data, strings.ToLower(contentType), nil
}

// IsSupportedImage reports whether contentType is an accepted photo format
func IsSupportedImage(contentType string) bool {
	_, ok := extensions[contentType]
	return ok
}
