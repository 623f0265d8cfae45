package media

import "errors"

// ImageSize is the output resolution requested for generated images.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// AspectRatio is the frame shape requested for generated videos.
type AspectRatio string

const (
	AspectRatioLandscape AspectRatio = "16:9"
	AspectRatioPortrait  AspectRatio = "9:16"
)

var (
	ErrInvalidImageSize   = errors.New("invalid image size")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
)

func ParseImageSize(s string) (ImageSize, error) {
	switch ImageSize(s) {
	case ImageSize1K, ImageSize2K, ImageSize4K:
		return ImageSize(s), nil
	default:
		return "", ErrInvalidImageSize
	}
}

func ParseAspectRatio(s string) (AspectRatio, error) {
	switch AspectRatio(s) {
	case AspectRatioLandscape, AspectRatioPortrait:
		return AspectRatio(s), nil
	default:
		return "", ErrInvalidAspectRatio
	}
}

// Image is raw image bytes with their MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Video is a downloaded generated clip.
type Video struct {
	Data     []byte
	MIMEType string
}
