package encoder

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// RemoteReader は go-remote-io の UniversalInputReader で gs:// URI とローカルパスを開く ObjectReader です。
// 認証情報の変更がすぐ反映されるよう、gs:// を開くたびに GCS クライアントを作ります。
type RemoteReader struct {
	newGCSClient func(ctx context.Context) (*storage.Client, error)
}

// NewRemoteReader は RemoteReader を初期化します。
func NewRemoteReader() *RemoteReader {
	return &RemoteReader{
		newGCSClient: func(ctx context.Context) (*storage.Client, error) {
			return storage.NewClient(ctx)
		},
	}
}

// Open はオブジェクトのリーダーを返します。gs:// の場合は Close でクライアントも閉じます。
func (r *RemoteReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if !remoteio.IsGCSURI(uri) {
		return remoteio.NewUniversalInputReader(nil, nil).Open(ctx, uri)
	}

	// クライアントを作る前に URI を検証する
	_, object, err := remoteio.ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}
	if object == "" {
		return nil, fmt.Errorf("オブジェクト名が空です: %s", uri)
	}

	client, err := r.newGCSClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCSクライアントの作成に失敗しました: %w", err)
	}
	rc, err := remoteio.NewUniversalInputReader(client, nil).Open(ctx, uri)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &gcsReadCloser{ReadCloser: rc, client: client}, nil
}

type gcsReadCloser struct {
	io.ReadCloser
	client *storage.Client
}

func (r *gcsReadCloser) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}
