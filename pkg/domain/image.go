package domain

import (
	"fmt"
	"time"
)

// AspectRatio は出力画像の幅と高さの比率です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectStory     AspectRatio = "9:16"
	AspectCinematic AspectRatio = "16:9"
)

// ImageSize は出力解像度の段階（正確なピクセル数ではない）です。
type ImageSize string

const (
	Size1K ImageSize = "1K"
	Size2K ImageSize = "2K"
	Size4K ImageSize = "4K"
)

const (
	DefaultAspectRatio = AspectSquare
	DefaultImageSize   = Size1K
)

// ImagePayload はユーザーが選択した画像を base64 化したものです。
// 生成後は変更しません。新しい画像が選ばれたら丸ごと差し替えます。
type ImagePayload struct {
	Name     string // 元ファイル名やURL（表示用）
	Base64   string // data: プレフィックスを含まない純粋な base64
	MimeType string
}

// IsEmpty はペイロードが生成リクエストに使えない状態かどうかを返します。
func (p *ImagePayload) IsEmpty() bool {
	return p == nil || p.Base64 == "" || p.MimeType == ""
}

// GenerationConfig は1セッション内で変更されるUI設定です。
type GenerationConfig struct {
	AspectRatio AspectRatio
	ImageSize   ImageSize
	Prompt      string // 任意の追加指示
}

// NewGenerationConfig はUIの初期値と同じ設定を返します。
func NewGenerationConfig() GenerationConfig {
	return GenerationConfig{
		AspectRatio: DefaultAspectRatio,
		ImageSize:   DefaultImageSize,
	}
}

// Validate は列挙値の範囲外を弾きます。
func (c GenerationConfig) Validate() error {
	if _, err := ParseAspectRatio(string(c.AspectRatio)); err != nil {
		return err
	}
	if _, err := ParseImageSize(string(c.ImageSize)); err != nil {
		return err
	}
	return nil
}

// GenerationResult は1回の生成成功ごとに1つだけ作られます。
type GenerationResult struct {
	ImageURL    string // data:image/png;base64,...
	AspectRatio AspectRatio
	ImageSize   ImageSize
	RequestID   string
	GeneratedAt time.Time
}

// ParseAspectRatio は文字列を AspectRatio に変換します。
func ParseAspectRatio(s string) (AspectRatio, error) {
	for _, opt := range aspectRatioOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("未対応のアスペクト比です: %q", s)
}

// ParseImageSize は文字列を ImageSize に変換します。
func ParseImageSize(s string) (ImageSize, error) {
	for _, opt := range imageSizeOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("未対応の解像度です: %q", s)
}
