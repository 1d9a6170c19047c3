package app

import (
	"context"

	"github.com/shouni/smartlayout-kit/pkg/domain"
)

type generateCall struct {
	payload    domain.ImagePayload
	ratio      domain.AspectRatio
	size       domain.ImageSize
	promptText string
}

// mockGenerator は generator.ImageGenerator のテスト用モックです。
type mockGenerator struct {
	generateFunc func(ctx context.Context) (string, error)
	calls        []generateCall
}

func (m *mockGenerator) Generate(ctx context.Context, payload domain.ImagePayload, ratio domain.AspectRatio, size domain.ImageSize, promptText string) (string, error) {
	m.calls = append(m.calls, generateCall{payload: payload, ratio: ratio, size: size, promptText: promptText})
	if m.generateFunc != nil {
		return m.generateFunc(ctx)
	}
	return "data:image/png;base64,AAAA", nil
}

type mockSelector struct {
	opened int
}

func (m *mockSelector) HasSelectedKey(ctx context.Context) (bool, error) { return false, nil }

func (m *mockSelector) OpenSelection(ctx context.Context) error {
	m.opened++
	return nil
}

// emptyError はメッセージを持たないエラーです。
type emptyError struct{}

func (emptyError) Error() string { return "" }

func pngPayload() domain.ImagePayload {
	return domain.ImagePayload{Name: "in.png", Base64: "iVBORw0KGgo=", MimeType: "image/png"}
}
