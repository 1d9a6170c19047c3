package encoder

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/smartlayout-kit/pkg/domain"
)

// ErrNotImage は宣言された型が image/ で始まらない場合に返されます。
// ネットワーク通信の前にローカルで判定されます。
var ErrNotImage = errors.New("画像ファイルをアップロードしてください")

const dataURIPrefix = "data:"

// EncodeBytes はバイト列を base64 ペイロードに変換します。
// declaredMIME が空の場合は内容から判定します。
func EncodeBytes(name string, data []byte, declaredMIME string) (domain.ImagePayload, error) {
	mimeType := declaredMIME
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !IsImageType(mimeType) {
		return domain.ImagePayload{}, fmt.Errorf("%w: %s (%s)", ErrNotImage, name, mimeType)
	}

	return domain.ImagePayload{
		Name:     name,
		Base64:   base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}, nil
}

// EncodeReader は r を最後まで読み込んでからエンコードします。読み込みエラーはそのまま返します。
func EncodeReader(ctx context.Context, name string, r io.Reader, declaredMIME string) (domain.ImagePayload, error) {
	if err := ctx.Err(); err != nil {
		return domain.ImagePayload{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}
	return EncodeBytes(name, data, declaredMIME)
}

// EncodeFile はローカルファイルを読み込みます。
// MIME タイプはブラウザと同様に拡張子から宣言し、判定できなければ内容から推定します。
func EncodeFile(ctx context.Context, path string) (domain.ImagePayload, error) {
	declared := DeclaredType(path)
	if declared != "" && !IsImageType(declared) {
		return domain.ImagePayload{}, fmt.Errorf("%w: %s (%s)", ErrNotImage, path, declared)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}
	defer f.Close()

	return EncodeReader(ctx, filepath.Base(path), f, declared)
}

// DeclaredType は拡張子から MIME タイプを返します。パラメータ部分は取り除きます。
func DeclaredType(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// IsImageType は MIME タイプが image/ で始まるかどうかを返します。
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// StripDataURI は "data:image/png;base64," のようなヘッダーを取り除き、純粋な base64 を返します。
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, dataURIPrefix) {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// Decode は base64 ペイロード（data URI でも可）を元のバイト列に戻します。
func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(StripDataURI(s))
}
