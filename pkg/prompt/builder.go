package prompt

import (
	"fmt"
	"strings"

	"github.com/shouni/smartlayout-kit/pkg/domain"
)

// Build はユーザーの追加指示と目標アスペクト比から、生成サービスへ送る最終プロンプトを組み立てます。
// 副作用のない純粋関数です。
func Build(freeText string, ratio domain.AspectRatio) string {
	text := strings.TrimSpace(freeText)
	if text != "" {
		return fmt.Sprintf(
			"%s. IMPORTANT: The output image MUST strictly adhere to a %s aspect ratio. Crop or extend the image content to fill the %s frame completely.",
			text, ratio, ratio,
		)
	}
	return fmt.Sprintf(
		"Reframe and resize this image to strictly fit a %s aspect ratio. Crop the sides or extend the background as necessary to fill the %s frame. Maintain the main subject's integrity but adapt the composition to the new shape.",
		ratio, ratio,
	)
}
