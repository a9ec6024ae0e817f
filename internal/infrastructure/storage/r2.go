package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/frontandrew/platescan/internal/pkg/config"
)

var ErrNotConfigured = errors.New("r2 storage is not configured")

// R2Client сохраняет исходные изображения в S3-совместимое хранилище
type R2Client struct {
	client        *s3.Client
	bucket        string
	endpoint      string
	publicBaseURL string
}

// NewR2Client создает клиент; без обязательных параметров возвращает ErrNotConfigured
func NewR2Client(cfg *config.StorageConfig) (*R2Client, error) {
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Client{
		client:        client,
		bucket:        cfg.Bucket,
		endpoint:      endpoint,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload загружает объект и возвращает его URL
func (r *R2Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if r == nil || r.client == nil {
		return "", ErrNotConfigured
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if _, err := r.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("r2 upload failed: %w", err)
	}
	return r.objectURL(key), nil
}

func (r *R2Client) objectURL(key string) string {
	trimmedKey := strings.TrimLeft(key, "/")
	if r.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", r.publicBaseURL, r.bucket, trimmedKey)
	}
	return fmt.Sprintf("%s/%s/%s", r.endpoint, r.bucket, trimmedKey)
}

// ScanImageKey строит ключ объекта для изображения распознавания
func ScanImageKey(digest string, contentType string, at time.Time) string {
	ext := "bin"
	switch contentType {
	case "image/jpeg":
		ext = "jpg"
	case "image/png":
		ext = "png"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	case "image/bmp":
		ext = "bmp"
	}
	return fmt.Sprintf("scans/%s/%s.%s", at.UTC().Format("2006/01/02"), digest, ext)
}

// UploadScanImage сохраняет изображение распознавания под ключом по дате и хешу
func (r *R2Client) UploadScanImage(ctx context.Context, digest string, data []byte, at time.Time) (string, error) {
	contentType := http.DetectContentType(data)
	return r.Upload(ctx, ScanImageKey(digest, contentType, at), data, contentType)
}
