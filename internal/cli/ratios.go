package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/smartlayout-kit/pkg/domain"
)

func (rt *runtime) ratiosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratios",
		Short: "対応しているアスペクト比と解像度を表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headerColor.Fprintln(rt.out, "Aspect ratios")
			for _, opt := range domain.AspectRatios() {
				fmt.Fprintf(rt.out, "  %-5s  %-10s ", opt.Value, opt.Label)
				dimColor.Fprintln(rt.out, opt.Description)
			}
			headerColor.Fprintln(rt.out, "Resolutions")
			for _, opt := range domain.ImageSizes() {
				fmt.Fprintf(rt.out, "  %-5s  %-15s ", opt.Value, opt.Label)
				dimColor.Fprintln(rt.out, opt.Detail)
			}
			return nil
		},
	}
}
