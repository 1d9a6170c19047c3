package domain

// AspectRatioOption は選択肢の表示用メタデータです。
type AspectRatioOption struct {
	Value       AspectRatio
	Label       string
	Description string
}

// ImageSizeOption は解像度の表示用メタデータです。
type ImageSizeOption struct {
	Value  ImageSize
	Label  string
	Detail string
}

var aspectRatioOptions = []AspectRatioOption{
	{Value: AspectSquare, Label: "Square", Description: "Social media posts, avatars"},
	{Value: AspectPortrait, Label: "Portrait", Description: "Standard photography"},
	{Value: AspectLandscape, Label: "Landscape", Description: "Classic screen"},
	{Value: AspectStory, Label: "Story", Description: "Mobile full screen"},
	{Value: AspectCinematic, Label: "Cinematic", Description: "Video thumbnails, desktop"},
}

var imageSizeOptions = []ImageSizeOption{
	{Value: Size1K, Label: "Standard (1K)", Detail: "Fast generation, good for web"},
	{Value: Size2K, Label: "High Res (2K)", Detail: "Print quality, detailed view"},
	{Value: Size4K, Label: "Ultra Res (4K)", Detail: "Maximum detail, pro usage"},
}

// AspectRatios は対応するアスペクト比を表示順で返します。
func AspectRatios() []AspectRatioOption {
	out := make([]AspectRatioOption, len(aspectRatioOptions))
	copy(out, aspectRatioOptions)
	return out
}

// ImageSizes は対応する解像度を表示順で返します。
func ImageSizes() []ImageSizeOption {
	out := make([]ImageSizeOption, len(imageSizeOptions))
	copy(out, imageSizeOptions)
	return out
}
