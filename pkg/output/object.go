package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectConfig は S3 互換ストレージの接続設定です。
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// ObjectSink は S3 互換ストレージ（MinIO 等）に結果をアップロードします。
type ObjectSink struct {
	client   *minio.Client
	put      func(ctx context.Context, key string, data []byte) error
	endpoint string
	bucket   string
	prefix   string
	scheme   string
}

// NewObjectSink は MinIO クライアントを作成して ObjectSink を返します。
func NewObjectSink(cfg ObjectConfig) (*ObjectSink, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("output: object endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("output: object bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	s := &ObjectSink{
		client:   client,
		endpoint: cfg.Endpoint,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		scheme:   scheme,
	}
	s.put = s.putObject
	return s, nil
}

func (s *ObjectSink) putObject(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: pngContentType,
	})
	return err
}

func (s *ObjectSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(s.prefix, path.Base(name))
	if err := s.put(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("%s://%s/%s/%s", s.scheme, s.endpoint, s.bucket, key), nil
}
