package credential

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	key string
	err error
}

func (s staticSource) APIKey(ctx context.Context) (string, error) { return s.key, s.err }

type mockSelector struct {
	selected bool
	err      error
	opened   int
}

func (m *mockSelector) HasSelectedKey(ctx context.Context) (bool, error) { return m.selected, m.err }
func (m *mockSelector) OpenSelection(ctx context.Context) error {
	m.opened++
	return nil
}

func TestEnvSource(t *testing.T) {
	ctx := context.Background()

	t.Run("最初に見つかった変数を使う", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("API_KEY", "  from-api-key  ")
		key, err := EnvSource{}.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "from-api-key", key)
	})

	t.Run("何もなければ ErrNoCredential", func(t *testing.T) {
		t.Setenv("SMARTLAYOUT_TEST_KEY", "")
		_, err := EnvSource{Keys: []string{"SMARTLAYOUT_TEST_KEY"}}.APIKey(ctx)
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "key"))
	require.NoError(t, err)

	_, err = store.APIKey(ctx)
	assert.ErrorIs(t, err, ErrNoCredential, "ファイルがなければ未選択扱い")

	require.NoError(t, store.Save("first"))
	key, err := store.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", key)

	// 書き換えは次の読み込みですぐ反映される
	require.NoError(t, store.Save("second"))
	key, err = store.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", key)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "二重削除はエラーにしない")
	_, err = store.APIKey(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)

	assert.Error(t, store.Save("   "))

	_, err = NewFileStore("")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	key, err := Chain{nil, staticSource{err: ErrNoCredential}, staticSource{key: "k2"}}.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "k2", key)

	boom := errors.New("permission denied")
	_, err = Chain{staticSource{err: boom}, staticSource{key: "k2"}}.APIKey(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = Chain{}.APIKey(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestOptionalSelectorHelpers(t *testing.T) {
	ctx := context.Background()

	t.Run("selector がなければ未選択・何もしない", func(t *testing.T) {
		assert.False(t, HasSelectedKey(ctx, nil))
		assert.NoError(t, OpenSelection(ctx, nil))
	})

	t.Run("selector のエラーは未選択として扱う", func(t *testing.T) {
		assert.False(t, HasSelectedKey(ctx, &mockSelector{selected: true, err: errors.New("x")}))
	})

	t.Run("selector に委譲する", func(t *testing.T) {
		m := &mockSelector{selected: true}
		assert.True(t, HasSelectedKey(ctx, m))
		require.NoError(t, OpenSelection(ctx, m))
		assert.Equal(t, 1, m.opened)
	})
}

func TestTerminalSelector(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "key"))
	require.NoError(t, err)

	out := new(bytes.Buffer)
	sel, err := NewTerminalSelector(store, nil, strings.NewReader("AIza-test-key\n"), out)
	require.NoError(t, err)

	selected, err := sel.HasSelectedKey(ctx)
	require.NoError(t, err)
	assert.False(t, selected)

	require.NoError(t, sel.OpenSelection(ctx))
	assert.Contains(t, out.String(), store.Path())

	selected, err = sel.HasSelectedKey(ctx)
	require.NoError(t, err)
	assert.True(t, selected)

	key, err := store.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AIza-test-key", key)

	t.Run("空入力は ErrNoCredential", func(t *testing.T) {
		sel, err := NewTerminalSelector(store, nil, strings.NewReader("\n"), new(bytes.Buffer))
		require.NoError(t, err)
		assert.ErrorIs(t, sel.OpenSelection(ctx), ErrNoCredential)
	})

	t.Run("続けて選択しても次の行を読める", func(t *testing.T) {
		sel, err := NewTerminalSelector(store, nil, strings.NewReader("stale-key\nfresh-key\n"), new(bytes.Buffer))
		require.NoError(t, err)

		require.NoError(t, sel.OpenSelection(ctx))
		key, err := store.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "stale-key", key)

		require.NoError(t, sel.OpenSelection(ctx))
		key, err = store.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "fresh-key", key)
	})

	t.Run("端末入力はエコーなしで読む", func(t *testing.T) {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		t.Cleanup(func() {
			r.Close()
			w.Close()
		})

		sel, err := NewTerminalSelector(store, nil, r, new(bytes.Buffer))
		require.NoError(t, err)
		var gotFD int
		sel.isTerminal = func(fd int) bool { return true }
		sel.readPassword = func(fd int) ([]byte, error) {
			gotFD = fd
			return []byte("hidden-key\n"), nil
		}

		require.NoError(t, sel.OpenSelection(ctx))
		assert.Equal(t, int(r.Fd()), gotFD)
		key, err := store.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hidden-key", key)
	})

	t.Run("パイプは端末扱いしない", func(t *testing.T) {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		t.Cleanup(func() { r.Close() })
		_, err = w.WriteString("piped-key\n")
		require.NoError(t, err)
		require.NoError(t, w.Close())

		sel, err := NewTerminalSelector(store, nil, r, new(bytes.Buffer))
		require.NoError(t, err)
		sel.readPassword = func(fd int) ([]byte, error) {
			t.Fatal("パイプ入力で ReadPassword が呼ばれた")
			return nil, nil
		}

		require.NoError(t, sel.OpenSelection(ctx))
		key, err := store.APIKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "piped-key", key)
	})

	_, err = NewTerminalSelector(nil, nil, nil, nil)
	assert.Error(t, err)
}
