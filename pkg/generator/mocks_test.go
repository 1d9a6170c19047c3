package generator

import (
	"context"
	"encoding/base64"

	"github.com/shouni/smartlayout-kit/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockKeySource struct {
	key   string
	err   error
	calls int
}

func (m *mockKeySource) APIKey(ctx context.Context) (string, error) {
	m.calls++
	return m.key, m.err
}

// mockAIClient は ContentGenerator のテスト用モックです。
type mockAIClient struct {
	generateFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	calls        int
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, config)
	}
	return imageResponse([]byte("fake-png")), nil
}

// recordingFactory は作成したクライアントと受け取ったキーを記録します。
type recordingFactory struct {
	keys    []string
	clients []*mockAIClient
	newFunc func() *mockAIClient
}

func (f *recordingFactory) factory(ctx context.Context, apiKey string) (ContentGenerator, error) {
	f.keys = append(f.keys, apiKey)
	c := &mockAIClient{}
	if f.newFunc != nil {
		c = f.newFunc()
	}
	f.clients = append(f.clients, c)
	return c, nil
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return responseWithParts(&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}})
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}

func testPayload() domain.ImagePayload {
	return domain.ImagePayload{
		Name:     "input.png",
		Base64:   base64.StdEncoding.EncodeToString([]byte("input-bytes")),
		MimeType: "image/png",
	}
}
