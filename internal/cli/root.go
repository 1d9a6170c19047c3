package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shouni/smartlayout-kit/internal/config"
	"github.com/shouni/smartlayout-kit/internal/logging"
	"github.com/shouni/smartlayout-kit/pkg/credential"
	"github.com/shouni/smartlayout-kit/pkg/generator"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// Option はコマンドの入出力や依存関係を差し替えます。
type Option func(*runtime)

// WithIO は標準入出力を差し替えます。errOut にはログも出力されます。
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(rt *runtime) {
		rt.in, rt.out, rt.errOut = in, out, errOut
	}
}

// WithClientFactory は Gemini クライアントの生成方法を差し替えます。
func WithClientFactory(f generator.ClientFactory) Option {
	return func(rt *runtime) {
		rt.factory = f
	}
}

// runtime はサブコマンド間で共有する状態です。
type runtime struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	factory generator.ClientFactory

	configPath string
	debug      bool

	cfg      config.Config
	closeLog func() error
}

// Run は args をパースしてコマンドを実行します。
func Run(ctx context.Context, args []string, opts ...Option) error {
	rt := &runtime{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(rt)
	}
	defer rt.close()

	root := rt.rootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		failColor.Fprintf(rt.errOut, "✗ %v\n", err)
		return err
	}
	return nil
}

func (rt *runtime) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartlayout",
		Short:         "画像を指定したアスペクト比と解像度に再構成します",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
	}
	root.SetIn(rt.in)
	root.SetOut(rt.out)
	root.SetErr(rt.errOut)

	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "YAML 設定ファイルのパス")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "デバッグログを出力する")

	root.AddCommand(
		rt.generateCmd(),
		rt.ratiosCmd(),
		rt.keyCmd(),
	)
	return root
}

func (rt *runtime) setup() error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	if rt.debug {
		cfg.Debug = true
	}
	rt.cfg = cfg
	rt.closeLog = logging.Setup(logging.Options{
		Debug:    cfg.Debug,
		FilePath: cfg.LogFile,
		Console:  rt.errOut,
	})
	return nil
}

func (rt *runtime) close() {
	if rt.closeLog != nil {
		_ = rt.closeLog()
		rt.closeLog = nil
	}
}

// credentials は環境変数とキーファイルを順に探す KeySource と、端末用の Selector を返します。
func (rt *runtime) credentials() (credential.KeySource, *credential.FileStore, *credential.TerminalSelector, error) {
	store, err := credential.NewFileStore(rt.cfg.KeyFile)
	if err != nil {
		return nil, nil, nil, err
	}
	keys := credential.Chain{credential.EnvSource{}, store}
	selector, err := credential.NewTerminalSelector(store, keys, rt.in, rt.out)
	if err != nil {
		return nil, nil, nil, err
	}
	return keys, store, selector, nil
}
