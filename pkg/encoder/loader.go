package encoder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"path"
	"strings"

	"github.com/shouni/smartlayout-kit/pkg/domain"
	"github.com/shouni/smartlayout-kit/pkg/imgutil"
)

// HTTPClient は URL から画像バイト列を取得するためのインターフェースです。
// go-http-kit の httpkit.Client がこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ObjectReader は gs:// などのオブジェクトストレージから読み込むためのインターフェースです。
type ObjectReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Loader はローカルパス、http(s) URL、gs:// URI のいずれからでも画像を読み込み、ペイロードを作ります。
type Loader struct {
	httpClient HTTPClient
	reader     ObjectReader
	// 0 なら圧縮しない
	compressQuality int
	isSafeURL       func(rawURL string) (bool, error)
}

// NewLoader は Loader を初期化します。httpClient と reader は nil を許容し、その場合は対応するソースが使えません。
func NewLoader(httpClient HTTPClient, reader ObjectReader, compressQuality int) *Loader {
	return &Loader{
		httpClient:      httpClient,
		reader:          reader,
		compressQuality: compressQuality,
		isSafeURL:       IsSafeURL,
	}
}

// Load は source を読み込んで ImagePayload を返します。
func (l *Loader) Load(ctx context.Context, source string) (domain.ImagePayload, error) {
	var (
		payload domain.ImagePayload
		err     error
	)

	switch {
	case strings.HasPrefix(source, "gs://"):
		payload, err = l.loadObject(ctx, source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		payload, err = l.loadURL(ctx, source)
	default:
		payload, err = EncodeFile(ctx, source)
	}
	if err != nil {
		return domain.ImagePayload{}, err
	}

	if l.compressQuality > 0 {
		payload = l.compress(ctx, payload)
	}
	return payload, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (domain.ImagePayload, error) {
	if l.httpClient == nil {
		return domain.ImagePayload{}, fmt.Errorf("HTTPクライアントが設定されていません: %s", rawURL)
	}
	safe, err := l.isSafeURL(rawURL)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	if !safe {
		return domain.ImagePayload{}, fmt.Errorf("安全ではないURLが指定されました: %s", rawURL)
	}

	data, err := l.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	// URL の拡張子は信用できないので内容から判定する
	return EncodeBytes(nameFromURI(rawURL), data, "")
}

func (l *Loader) loadObject(ctx context.Context, uri string) (domain.ImagePayload, error) {
	if l.reader == nil {
		return domain.ImagePayload{}, fmt.Errorf("ストレージリーダーが設定されていません: %s", uri)
	}
	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("オブジェクトのオープンに失敗しました: %w", err)
	}
	defer rc.Close()

	return EncodeReader(ctx, nameFromURI(uri), rc, DeclaredType(uri))
}

// compress は失敗しても元のペイロードで続行します。
func (l *Loader) compress(ctx context.Context, p domain.ImagePayload) domain.ImagePayload {
	raw, err := Decode(p.Base64)
	if err != nil {
		slog.WarnContext(ctx, "圧縮前のデコードに失敗しました。元の画像で続行します", "name", p.Name, "error", err)
		return p
	}
	compressed, err := imgutil.CompressToJPEG(raw, l.compressQuality)
	if err != nil {
		slog.WarnContext(ctx, "画像の圧縮に失敗しました。元の画像で続行します", "name", p.Name, "error", err)
		return p
	}
	if len(compressed) >= len(raw) {
		return p
	}

	slog.DebugContext(ctx, "入力画像を圧縮しました", "name", p.Name, "before", len(raw), "after", len(compressed))
	out, err := EncodeBytes(p.Name, compressed, "image/jpeg")
	if err != nil {
		return p
	}
	return out
}

func nameFromURI(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return uri
}

// IsSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func IsSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
