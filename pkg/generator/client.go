package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/smartlayout-kit/pkg/credential"
	"github.com/shouni/smartlayout-kit/pkg/domain"
	"google.golang.org/genai"
)

// GeminiClient は1回の呼び出しごとに genai クライアントを作り直して画像を生成します。
// キーの選び直しがすぐ反映されるよう、接続やセッションを構造体に保持しません。
type GeminiClient struct {
	keys    credential.KeySource
	factory ClientFactory
	model   string
}

// Option は GeminiClient の設定を変更します。
type Option func(*GeminiClient)

// WithModel はモデル名を差し替えます。
func WithModel(model string) Option {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithClientFactory はクライアントの生成方法を差し替えます（主にテスト用）。
func WithClientFactory(f ClientFactory) Option {
	return func(c *GeminiClient) {
		if f != nil {
			c.factory = f
		}
	}
}

// NewGeminiClient は依存関係を注入して GeminiClient を初期化します。
func NewGeminiClient(keys credential.KeySource, opts ...Option) (*GeminiClient, error) {
	if keys == nil {
		return nil, fmt.Errorf("keys (credential.KeySource) is required")
	}

	c := &GeminiClient{
		keys:    keys,
		factory: NewGenAIFactory(nil),
		model:   DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model は使用中のモデル名を返します。
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate はプロンプトと画像を1回だけ送信し、最初に見つかった画像パーツを data URI で返します。
// リトライやタイムアウトは行いません（ctx とトランスポートに任せます）。
func (c *GeminiClient) Generate(ctx context.Context, payload domain.ImagePayload, ratio domain.AspectRatio, size domain.ImageSize, promptText string) (string, error) {
	url, err := c.generate(ctx, payload, ratio, size, promptText)
	if err != nil {
		slog.ErrorContext(ctx, "Gemini API エラー", "model", c.model, "error", err)
		return "", Classify(err)
	}
	return url, nil
}

func (c *GeminiClient) generate(ctx context.Context, payload domain.ImagePayload, ratio domain.AspectRatio, size domain.ImageSize, promptText string) (string, error) {
	apiKey, err := c.keys.APIKey(ctx)
	if err != nil {
		return "", err
	}

	ai, err := c.factory(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("Geminiクライアントの作成に失敗しました: %w", err)
	}

	parts, err := buildParts(payload, promptText)
	if err != nil {
		return "", err
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(ratio),
			ImageSize:   string(size),
		},
	}

	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします", "model", c.model, "aspect_ratio", ratio, "image_size", size, "mime_type", payload.MimeType)
	start := time.Now()

	resp, err := ai.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", err
	}

	url, err := extractImage(resp)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "画像生成が完了しました", "model", c.model, "elapsed", time.Since(start))
	return url, nil
}

// buildParts はテキストパーツ、画像パーツの順に並べます。
func buildParts(payload domain.ImagePayload, promptText string) ([]*genai.Part, error) {
	if payload.IsEmpty() {
		return nil, fmt.Errorf("画像ペイロードが空です")
	}
	data, err := base64.StdEncoding.DecodeString(payload.Base64)
	if err != nil {
		return nil, fmt.Errorf("画像ペイロードのデコードに失敗しました: %w", err)
	}
	return []*genai.Part{
		{Text: promptText},
		{InlineData: &genai.Blob{MIMEType: payload.MimeType, Data: data}},
	}, nil
}

// extractImage は最初の候補のパーツを順に走査し、最初のインライン画像データを返します。
// それ以降のパーツは見ません。
func extractImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoImageInResponse
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", ErrNoImageInResponse
	}
	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return resultDataURIPrefix + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	return "", ErrNoImageInResponse
}
