package credential

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvKeys は API キーを探す環境変数名です。
var DefaultEnvKeys = []string{"GEMINI_API_KEY", "API_KEY"}

// EnvSource は環境変数から API キーを読みます。
type EnvSource struct {
	Keys []string
}

func (e EnvSource) APIKey(ctx context.Context) (string, error) {
	keys := e.Keys
	if len(keys) == 0 {
		keys = DefaultEnvKeys
	}
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, nil
		}
	}
	return "", ErrNoCredential
}
