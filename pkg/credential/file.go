package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore はローカルファイルに API キーを保存します。読み込みは毎回ファイルから行います。
type FileStore struct {
	path string
}

// NewFileStore は path を保存先とする FileStore を作ります。
func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("key file path is required")
	}
	return &FileStore{path: path}, nil
}

// Path は保存先のパスを返します。
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) APIKey(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("キーファイルの読み込みに失敗しました: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNoCredential
	}
	return key, nil
}

// Save はキーを書き込みます。ファイルは所有者のみ読み書き可能にします。
func (s *FileStore) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key is required")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("キーファイルのディレクトリ作成に失敗しました: %w", err)
	}
	return os.WriteFile(s.path, []byte(key+"\n"), 0o600)
}

// Clear は保存済みのキーを削除します。
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
