package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const pngContentType = "image/png"

// FileSink はローカルディレクトリに結果を書き出します。
type FileSink struct {
	dir    string
	writer remoteio.OutputWriter
}

// NewFileSink は dir を作成して FileSink を返します。
func NewFileSink(dir string) (*FileSink, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("output: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output: ensure directory: %w", err)
	}
	// ローカル書き込みだけなのでクラウドのクライアントは不要
	return &FileSink{dir: dir, writer: remoteio.NewUniversalIOWriter(nil, nil)}, nil
}

func (s *FileSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// 名前にディレクトリを含めさせない
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("output: invalid file name %q", name)
	}
	path := filepath.Join(s.dir, clean)
	if err := s.writer.Write(ctx, path, bytes.NewReader(data), pngContentType); err != nil {
		return "", err
	}
	return path, nil
}
