package services

import (
	"bytes"
	"catalog_server/lib"
	"catalog_server/structs"
	"context"
	"fmt"
	"path"

	"github.com/MonkyMars/gecho"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage keeps files in an S3-compatible bucket (AWS, R2, minio)
type S3Storage struct {
	logger   *gecho.Logger
	bucket   string
	client   *s3.Client
	uploader *manager.Uploader
}

func NewS3Storage(ctx context.Context, logger *gecho.Logger, cfg *structs.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("S3 storage initialized", gecho.Field("bucket", cfg.Bucket), gecho.Field("endpoint", cfg.Endpoint))

	return &S3Storage{
		logger:   logger,
		bucket:   cfg.Bucket,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (s *S3Storage) Store(ctx context.Context, dir string, file *structs.UploadedFile) (string, error) {
	key := path.Join(dir, storedFileName(file))

	contentType := "application/octet-stream"
	if image, ok := lib.DetectImage(file.Content); ok {
		contentType = image.MIME
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &lib.StorageError{Op: "store", Path: key, Err: err}
	}

	s.logger.Debug("Uploaded file", gecho.Field("key", key), gecho.Field("size", file.Size))
	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &lib.StorageError{Op: "delete", Path: key, Err: err}
	}

	s.logger.Debug("Deleted object", gecho.Field("key", key))
	return nil
}
