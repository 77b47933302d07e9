package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type R2Storage struct {
	client        *s3.Client
	bucketName    string
	publicURL     string
	folder        string
	uploadTimeout time.Duration
}

// NewR2Storage returns a Cloudflare R2 backed store. Objects are written under folder.
func NewR2Storage(ctx context.Context, accountId, accessKey, secretKey, bucketName, publicURL, folder string, uploadTimeout time.Duration) (*R2Storage, error) {
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:        client,
		bucketName:    bucketName,
		publicURL:     strings.TrimSuffix(publicURL, "/"),
		folder:        strings.Trim(folder, "/"),
		uploadTimeout: uploadTimeout,
	}, nil
}

// UploadBuffer uploads processed image bytes and returns the public URL.
func (s *R2Storage) UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error) {
	key := objectKey(s.folder, contentType)

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload buffer to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// DeleteFile deletes a file by its full public URL. URLs outside publicURL/folder are rejected.
func (s *R2Storage) DeleteFile(ctx context.Context, fileURL string) error {
	key, err := keyFromURL(s.publicURL, s.folder, fileURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from R2: %w", err)
	}

	return nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return ".bin"
}

func objectKey(folder, contentType string) string {
	name := uuid.NewString() + extension(contentType)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// keyFromURL maps a public URL back to its object key. Keys outside folder
// belong to another store and are rejected.
func keyFromURL(publicURL, folder, fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicURL+"/") {
		return "", fmt.Errorf("invalid file URL: domain mismatch")
	}
	key := strings.TrimPrefix(fileURL, publicURL+"/")
	if key == "" || path.Clean(key) != key {
		return "", fmt.Errorf("invalid file key derived from URL")
	}
	if folder != "" && !strings.HasPrefix(key, folder+"/") {
		return "", fmt.Errorf("invalid file URL: not under %s/", folder)
	}
	return key, nil
}
