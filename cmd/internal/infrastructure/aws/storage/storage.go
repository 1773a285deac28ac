package storage

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AvatarPath is the key prefix of every profile picture.
const AvatarPath = "avatars/"

type S3Client interface {
	UploadFile(ctx context.Context, data []byte, key string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	PublicURL(key string) string
}

type storageClient struct {
	bucket  string
	baseURL string
	client  *s3.Client
}

// NewStorageClient builds a client for bucket. Objects are served from
// publicBaseURL (the bucket website or a CDN in front of it).
func NewStorageClient(ctx context.Context, region, bucket, publicBaseURL string) (S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &storageClient{
		bucket:  bucket,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
		client:  s3.NewFromConfig(cfg),
	}, nil
}

// UploadFile stores data under key and returns the key.
func (s *storageClient) UploadFile(ctx context.Context, data []byte, key string) (string, error) {
	if key == "" || strings.HasSuffix(key, "/") {
		return "", errors.New("object key is empty")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(key))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *storageClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL returns where key can be downloaded from, or "" for an empty key.
func (s *storageClient) PublicURL(key string) string {
	return JoinURL(s.baseURL, key)
}

func JoinURL(baseURL, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}
