package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shouni/smartlayout-kit/pkg/domain"
	"github.com/shouni/smartlayout-kit/pkg/encoder"
	"github.com/shouni/smartlayout-kit/pkg/imgutil"
)

// DefaultAppName はダウンロードファイル名の先頭に付く名前です。
const DefaultAppName = "smartlayout"

// Sink は生成結果の保存先です。
type Sink interface {
	// Save は data を name で保存し、保存先の場所（パスやURL）を返します。
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileName は "<app>-<比率のコロンをハイフンに>-<エポックミリ秒>.png" 形式の名前を返します。
func FileName(app string, ratio domain.AspectRatio, t time.Time) string {
	if app == "" {
		app = DefaultAppName
	}
	return fmt.Sprintf("%s-%s-%d.png", app, strings.Replace(string(ratio), ":", "-", 1), t.UnixMilli())
}

// Export は結果の data URI をデコードし、PNG に揃えてから sink に保存します。
func Export(ctx context.Context, sink Sink, app string, res domain.GenerationResult) (string, error) {
	if sink == nil {
		return "", fmt.Errorf("sink is required")
	}
	raw, err := encoder.Decode(res.ImageURL)
	if err != nil {
		return "", fmt.Errorf("生成画像のデコードに失敗しました: %w", err)
	}
	data, err := imgutil.ToPNG(raw)
	if err != nil {
		return "", err
	}

	ts := res.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return sink.Save(ctx, FileName(app, res.AspectRatio, ts), data)
}
