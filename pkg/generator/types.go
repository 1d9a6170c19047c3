package generator

const (
	// DefaultModel は画像生成に使うモデルです。
	DefaultModel = "gemini-3-pro-image-preview"

	// 応答の MIME タイプに関係なく PNG として扱う
	resultDataURIPrefix = "data:image/png;base64,"
)
