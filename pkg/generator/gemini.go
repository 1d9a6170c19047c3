package generator

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// NewGenAIFactory は genai.Client を毎回新しく作る ClientFactory を返します。
// httpClient が nil の場合は genai の既定クライアントを使います。
func NewGenAIFactory(httpClient *http.Client) ClientFactory {
	return newGenAIFactory(httpClient, "")
}

func newGenAIFactory(httpClient *http.Client, baseURL string) ClientFactory {
	return func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		cfg := &genai.ClientConfig{
			APIKey:     apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client.Models, nil
	}
}
