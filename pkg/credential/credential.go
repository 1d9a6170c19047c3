package credential

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNoCredential は利用可能な API キーが見つからない場合に返されます。
var ErrNoCredential = errors.New("APIキーが選択されていません")

// KeySource は生成呼び出しのたびに問い合わせる API キーの取得元です。
// キャッシュせず毎回読み込むことで、直前に選び直したキーがすぐ反映されます。
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// Selector は外部で管理されるキー選択 UI を表します。
type Selector interface {
	HasSelectedKey(ctx context.Context) (bool, error)
	OpenSelection(ctx context.Context) error
}

// HasSelectedKey は selector が nil の場合 false を返します。
func HasSelectedKey(ctx context.Context, s Selector) bool {
	if s == nil {
		return false
	}
	ok, err := s.HasSelectedKey(ctx)
	if err != nil {
		slog.WarnContext(ctx, "APIキーの選択状態を確認できませんでした", "error", err)
		return false
	}
	return ok
}

// OpenSelection は selector が nil の場合は何もせず、利用できないことをログに残します。
func OpenSelection(ctx context.Context, s Selector) error {
	if s == nil {
		slog.ErrorContext(ctx, "APIキー選択ヘルパーが利用できません")
		return nil
	}
	return s.OpenSelection(ctx)
}

// Chain は先頭から順にキーを探し、最初に見つかったものを返します。
type Chain []KeySource

func (c Chain) APIKey(ctx context.Context) (string, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		key, err := src.APIKey(ctx)
		if err == nil && key != "" {
			return key, nil
		}
		if err != nil && !errors.Is(err, ErrNoCredential) {
			return "", err
		}
	}
	return "", ErrNoCredential
}
