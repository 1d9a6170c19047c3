package output

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// GCSSink は gs://bucket/prefix 配下に結果をアップロードします。
// 保存のたびに GCS クライアントを作り、終わったら閉じます。
type GCSSink struct {
	bucket       string
	prefix       string
	newGCSClient func(ctx context.Context) (*storage.Client, error)
}

// NewGCSSink は gs:// URI を出力先とする GCSSink を返します。
func NewGCSSink(uri string) (*GCSSink, error) {
	bucket, prefix, err := remoteio.ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}
	return &GCSSink{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		newGCSClient: func(ctx context.Context) (*storage.Client, error) {
			return storage.NewClient(ctx)
		},
	}, nil
}

// URI は name を保存したときの gs:// URI を返します。
func (s *GCSSink) URI(name string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, path.Join(s.prefix, path.Base(name)))
}

func (s *GCSSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client, err := s.newGCSClient(ctx)
	if err != nil {
		return "", fmt.Errorf("GCSクライアントの作成に失敗しました: %w", err)
	}
	defer client.Close()

	uri := s.URI(name)
	if err := remoteio.NewUniversalIOWriter(client, nil).Write(ctx, uri, bytes.NewReader(data), pngContentType); err != nil {
		return "", err
	}
	return uri, nil
}
