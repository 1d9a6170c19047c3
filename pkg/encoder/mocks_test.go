package encoder

import (
	"bytes"
	"context"
	"io"
	"testing"
)

// 1x1 の PNG
var tinyPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90wS\xde\x00\x00\x00\x0cIDATx\x9cc\xf8\xcf\xc0\x00\x00\x03\x01\x01\x00\xc9\xfe\x92\xef\x00\x00\x00\x00IEND\xaeB`\x82")

type mockHTTPClient struct {
	data   []byte
	err    error
	called int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.called++
	return m.data, m.err
}

type mockObjectReader struct {
	data    []byte
	err     error
	lastURI string
}

func (m *mockObjectReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.lastURI = uri
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

type failingReader struct{ err error }

func (r failingReader) Read(p []byte) (int, error) { return 0, r.err }

func alwaysSafe(string) (bool, error) { return true, nil }

func newTestLoader(t *testing.T, h HTTPClient, r ObjectReader, quality int) *Loader {
	t.Helper()
	l := NewLoader(h, r, quality)
	l.isSafeURL = alwaysSafe
	return l
}
