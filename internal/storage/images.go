// Package storage uploads listing images to an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/config"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 << 20

// DefaultPrefix is the key prefix used when the caller does not supply one.
const DefaultPrefix = "property-images"

var (
	ErrUnsupportedImage = errors.New("only JPEG, PNG and WebP images are allowed")
	ErrImageTooLarge    = errors.New("image exceeds the 5MB limit")
	ErrEmptyImage       = errors.New("image is empty")
	ErrForeignURL       = errors.New("url does not belong to this bucket")
)

var contentTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Image is a single file to upload.
type Image struct {
	Body     io.Reader
	Filename string
	Size     int64
}

// ImageStore stores images and returns their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, prefix string, img Image) (string, error)
	Delete(ctx context.Context, url string) error
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type deleter interface {
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements ImageStore using the S3 transfer manager.
type S3Store struct {
	uploader      uploader
	deleter       deleter
	bucket        string
	region        string
	publicBaseURL string
}

// NewS3Store creates an S3Store from configuration. A custom endpoint
// switches the client to path-style addressing for R2 and MinIO.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(manager.NewUploader(client), client, cfg), nil
}

func newS3Store(u uploader, d deleter, cfg config.StorageConfig) *S3Store {
	return &S3Store{
		uploader:      u,
		deleter:       d,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}
}

// ValidateImage checks the file extension and size and returns the
// content type to store the object with.
func ValidateImage(filename string, size int64) (string, error) {
	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if size <= 0 {
		return "", ErrEmptyImage
	}
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	return contentType, nil
}

// ObjectKey builds "<prefix>/<random>.<ext>" for filename.
func ObjectKey(prefix, filename string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// Upload validates img, stores it under prefix and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, prefix string, img Image) (string, error) {
	contentType, err := ValidateImage(img.Filename, img.Size)
	if err != nil {
		return "", err
	}

	key := ObjectKey(prefix, img.Filename)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          io.LimitReader(img.Body, MaxImageSize),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(img.Size),
		CacheControl:  aws.String("public, max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.PublicURL(key), nil
}

// Delete removes the object behind a URL previously returned by Upload.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.PublicURL(""))
	if !ok || key == "" {
		return ErrForeignURL
	}

	_, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the address clients use to fetch key.
func (s *S3Store) PublicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
