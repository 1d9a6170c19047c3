package generator

import (
	"context"

	"github.com/shouni/smartlayout-kit/pkg/domain"
	"google.golang.org/genai"
)

// ImageGenerator はアプリケーション層が利用する生成窓口です。
type ImageGenerator interface {
	// Generate は画像とプロンプトを送信し、結果画像の data URI を返します。
	Generate(ctx context.Context, payload domain.ImagePayload, ratio domain.AspectRatio, size domain.ImageSize, promptText string) (string, error)
}

// ContentGenerator は genai.Models のうち、このパッケージが使うメソッドだけを抜き出したものです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory は API キーから新しい ContentGenerator を作ります。
// 呼び出しごとに使い捨てられ、複数の呼び出しで共有されることはありません。
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)
