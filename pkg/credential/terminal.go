package credential

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalSelector は端末からキーを入力させ、FileStore に保存する Selector です。
type TerminalSelector struct {
	store  *FileStore
	source KeySource
	in     *bufio.Reader
	out    io.Writer

	// fd は入力が端末のときのファイルディスクリプタ。端末でなければ -1
	fd           int
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

// NewTerminalSelector は TerminalSelector を初期化します。
// source は選択状態の確認に使います（環境変数とファイルの Chain など）。
// in が端末の場合、入力したキーは画面に表示されません。
func NewTerminalSelector(store *FileStore, source KeySource, in io.Reader, out io.Writer) (*TerminalSelector, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if source == nil {
		source = store
	}
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = io.Discard
	}

	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &TerminalSelector{
		store:        store,
		source:       source,
		in:           bufio.NewReader(in),
		out:          out,
		fd:           fd,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}, nil
}

func (s *TerminalSelector) HasSelectedKey(ctx context.Context) (bool, error) {
	key, err := s.source.APIKey(ctx)
	if errors.Is(err, ErrNoCredential) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return key != "", nil
}

func (s *TerminalSelector) OpenSelection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprint(s.out, "Gemini API キーを入力してください: ")

	key, err := s.readKey()
	if err != nil {
		return fmt.Errorf("キーの入力に失敗しました: %w", err)
	}
	if key == "" {
		return ErrNoCredential
	}
	if err := s.store.Save(key); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "キーを %s に保存しました\n", s.store.Path())
	return nil
}

// readKey は端末ならエコーなしで、それ以外（パイプ等）は1行ずつ読みます。
// 行リーダーは呼び出し間で共有するので、続けて選択しても入力を取りこぼしません。
func (s *TerminalSelector) readKey() (string, error) {
	if s.fd >= 0 && s.isTerminal(s.fd) {
		b, err := s.readPassword(s.fd)
		fmt.Fprintln(s.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
