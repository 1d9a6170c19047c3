package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/smartlayout-kit/pkg/app"
	"github.com/shouni/smartlayout-kit/pkg/credential"
	"github.com/shouni/smartlayout-kit/pkg/domain"
	"github.com/shouni/smartlayout-kit/pkg/encoder"
	"github.com/shouni/smartlayout-kit/pkg/generator"
	"github.com/shouni/smartlayout-kit/pkg/imgutil"
	"github.com/shouni/smartlayout-kit/pkg/output"
)

type generateFlags struct {
	ratio    string
	size     string
	prompt   string
	outDir   string
	compress bool
	upload   bool
}

func (rt *runtime) generateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate <image>",
		Short: "参照画像を指定のアスペクト比に再構成して保存する",
		Long: "参照画像（ローカルパス、http(s) URL、gs:// URI）を読み込み、\n" +
			"指定したアスペクト比と解像度で Gemini に再構成させて PNG として保存します。",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.runGenerate(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.ratio, "ratio", "r", string(domain.DefaultAspectRatio), "アスペクト比 (1:1, 3:4, 4:3, 9:16, 16:9)")
	cmd.Flags().StringVarP(&f.size, "size", "s", string(domain.DefaultImageSize), "解像度 (1K, 2K, 4K)")
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "追加の指示（例: 背景を夕焼けにする）")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "出力ディレクトリまたは gs://bucket/prefix（省略時は設定の output_dir）")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "送信前に入力画像を JPEG 圧縮する")
	cmd.Flags().BoolVar(&f.upload, "upload", false, "結果を S3 互換ストレージにアップロードする")
	return cmd
}

func (rt *runtime) runGenerate(cmd *cobra.Command, source string, f generateFlags) error {
	ctx := cmd.Context()

	ratio, err := domain.ParseAspectRatio(f.ratio)
	if err != nil {
		return err
	}
	size, err := domain.ParseImageSize(f.size)
	if err != nil {
		return err
	}
	sink, err := rt.sink(f)
	if err != nil {
		return err
	}

	quality := 0
	if f.compress {
		quality = rt.cfg.CompressQuality
	}
	loader := encoder.NewLoader(httpkit.New(rt.cfg.HTTPTimeout), encoder.NewRemoteReader(), quality)
	payload, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}

	keys, _, selector, err := rt.credentials()
	if err != nil {
		return err
	}
	if !credential.HasSelectedKey(ctx, selector) {
		warnColor.Fprintln(rt.out, "APIキーが選択されていません。")
		if err := credential.OpenSelection(ctx, selector); err != nil {
			return err
		}
	}

	factory := rt.factory
	if factory == nil {
		factory = generator.NewGenAIFactory(nil)
	}
	gen, err := generator.NewGeminiClient(keys,
		generator.WithModel(rt.cfg.Model),
		generator.WithClientFactory(factory),
	)
	if err != nil {
		return err
	}
	ctrl, err := app.NewController(gen, selector)
	if err != nil {
		return err
	}

	ctrl.SelectImage(payload)
	if err := ctrl.SetAspectRatio(ratio); err != nil {
		return err
	}
	if err := ctrl.SetImageSize(size); err != nil {
		return err
	}
	ctrl.SetPrompt(f.prompt)

	slog.DebugContext(ctx, "生成クライアントを準備しました", "model", gen.Model(), "source", source)
	dimColor.Fprintf(rt.out, "生成中... (%s, %s, %s, %s)\n", payload.Name, ratio, size, gen.Model())
	res, err := ctrl.Generate(ctx)
	if err != nil {
		if errors.Is(err, generator.ErrMissingCredential) {
			warnColor.Fprintln(rt.errOut, "APIキーを選び直してから、もう一度実行してください。")
		}
		if err.Error() == "" {
			return errors.New(ctrl.Snapshot().Error)
		}
		return err
	}

	loc, err := output.Export(ctx, sink, output.DefaultAppName, *res)
	if err != nil {
		return fmt.Errorf("生成画像の保存に失敗しました: %w", err)
	}

	if raw, err := encoder.Decode(res.ImageURL); err == nil {
		if w, h, format, err := imgutil.Dimensions(raw); err == nil {
			slog.InfoContext(ctx, "生成画像を保存しました", "request_id", res.RequestID, "location", loc, "width", w, "height", h, "format", format)
		}
	}
	successColor.Fprintf(rt.out, "✓ %s\n", loc)
	return nil
}

func (rt *runtime) sink(f generateFlags) (output.Sink, error) {
	if f.upload {
		obj := rt.cfg.ObjectStorage
		if !obj.Enabled() {
			return nil, errors.New("アップロード先が設定されていません (SMARTLAYOUT_S3_ENDPOINT)")
		}
		return output.NewObjectSink(output.ObjectConfig{
			Endpoint:  obj.Endpoint,
			AccessKey: obj.AccessKey,
			SecretKey: obj.SecretKey,
			Bucket:    obj.Bucket,
			Prefix:    obj.Prefix,
			UseSSL:    obj.UseSSL,
		})
	}
	dir := f.outDir
	if dir == "" {
		dir = rt.cfg.OutputDir
	}
	if strings.HasPrefix(dir, "gs://") {
		return output.NewGCSSink(dir)
	}
	return output.NewFileSink(dir)
}
