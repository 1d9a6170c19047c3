package prompt

import (
	"strings"
	"testing"

	"github.com/shouni/smartlayout-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	for _, opt := range domain.AspectRatios() {
		ratio := opt.Value

		t.Run("追加指示なし/"+string(ratio), func(t *testing.T) {
			got := Build("", ratio)
			assert.Contains(t, got, string(ratio))
			assert.True(t, strings.HasPrefix(got, "Reframe and resize this image"))
			assert.Contains(t, got, "Crop the sides or extend the background")
			assert.Contains(t, got, "main subject's integrity")
		})

		t.Run("追加指示あり/"+string(ratio), func(t *testing.T) {
			got := Build("Make it cinematic", ratio)
			assert.True(t, strings.HasPrefix(got, "Make it cinematic"))
			assert.Contains(t, got, "MUST strictly adhere to a "+string(ratio)+" aspect ratio")
			assert.Contains(t, got, "Crop or extend the image content to fill the "+string(ratio)+" frame")
		})
	}

	t.Run("空白だけの指示は未指定として扱う", func(t *testing.T) {
		assert.Equal(t, Build("", domain.AspectStory), Build("   \n", domain.AspectStory))
	})

	t.Run("決定的である", func(t *testing.T) {
		assert.Equal(t, Build("center the person", domain.AspectSquare), Build("center the person", domain.AspectSquare))
	})
}
