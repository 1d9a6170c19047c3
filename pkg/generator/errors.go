package generator

import (
	"errors"
	"strings"

	"github.com/shouni/smartlayout-kit/pkg/credential"
)

// 以下のメッセージはサービス側・画面側と取り決めた文言そのままなので、Go の慣習に合わせて書き換えないこと。
var (
	// ErrMissingCredential は設定された API キー（エンティティ）が見つからなかったことを示します。
	// 呼び出し側はこれを見てキーの再選択を促せます。
	ErrMissingCredential = errors.New("API_KEY_MISSING")
	// ErrNoImageInResponse は通信は成功したが画像パーツが含まれていなかったことを示します。
	ErrNoImageInResponse = errors.New("No image data found in response.") //nolint:staticcheck // ST1005: 表示文言を維持する
)

// entityNotFoundMarker はキーが無効・未選択のときにサービスが返すメッセージの一部です。
const entityNotFoundMarker = "Requested entity was not found"

// Category はユーザー向けに区別するエラーの種類です。
type Category string

const (
	CategoryNone              Category = ""
	CategoryValidation        Category = "validation"
	CategoryMissingCredential Category = "missing_credential"
	CategoryNoImage           Category = "no_image"
	CategoryTransport         Category = "transport"
)

// Classify は生成呼び出し中に発生したエラーを分類します。
// メッセージにマーカーが含まれていれば ErrMissingCredential を、それ以外は err をそのまま返します。
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, credential.ErrNoCredential) || strings.Contains(err.Error(), entityNotFoundMarker) {
		return ErrMissingCredential
	}
	return err
}

// CategoryOf は分類済みのエラーをカテゴリに対応付けます。
// validation は呼び出し側（アプリケーション層）で判定します。
func CategoryOf(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrMissingCredential):
		return CategoryMissingCredential
	case errors.Is(err, ErrNoImageInResponse):
		return CategoryNoImage
	default:
		return CategoryTransport
	}
}
