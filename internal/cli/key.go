package cli

import (
	"github.com/spf13/cobra"

	"github.com/shouni/smartlayout-kit/pkg/credential"
)

func (rt *runtime) keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Gemini API キーを管理する",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "API キーが選択済みかを表示する",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, store, selector, err := rt.credentials()
				if err != nil {
					return err
				}
				if credential.HasSelectedKey(cmd.Context(), selector) {
					successColor.Fprintln(rt.out, "✓ APIキーは選択済みです")
					return nil
				}
				warnColor.Fprintln(rt.out, "APIキーが選択されていません")
				dimColor.Fprintf(rt.out, "GEMINI_API_KEY を設定するか `smartlayout key select` を実行してください (%s)\n", store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "select",
			Short: "API キーを入力して保存する",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, _, selector, err := rt.credentials()
				if err != nil {
					return err
				}
				return credential.OpenSelection(cmd.Context(), selector)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "保存済みの API キーを削除する",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, store, _, err := rt.credentials()
				if err != nil {
					return err
				}
				if err := store.Clear(); err != nil {
					return err
				}
				successColor.Fprintln(rt.out, "✓ 保存済みのキーを削除しました")
				return nil
			},
		},
	)
	return cmd
}
