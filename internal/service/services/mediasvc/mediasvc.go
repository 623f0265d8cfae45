package mediasvc

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/corray333/atlas-cafe/internal/service/models/media"
	"go.opentelemetry.io/otel"
)

const (
	DefaultEditPrompt  = "Enhance this image"
	DefaultVideoPrompt = "Animate this naturally"

	menuPhotoPrompt = "Professional food photography of %s, %s, appetizing, 4k resolution, cinematic lighting, restaurant menu style."
)

type generator interface {
	GenerateImage(ctx context.Context, prompt string, size media.ImageSize) (media.Image, error)
	EditImage(ctx context.Context, image, prompt string) (media.Image, error)
	GenerateVideo(ctx context.Context, image, prompt string, aspectRatio media.AspectRatio) (media.Video, error)
}

// MediaService produces fan images, edited photos, short clips and menu photos.
type MediaService struct {
	generator generator
}

// option is a function that configures the MediaService.
type option func(*MediaService)

// MustNewMediaService creates a new MediaService.
func MustNewMediaService(opts ...option) *MediaService {
	s := &MediaService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		panic("media service requires a generator")
	}

	return s
}

// WithGenerator sets the generation backend.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGenerator(g generator) option {
	return func(s *MediaService) {
		s.generator = g
	}
}

// GenerateImage returns a data URL of a square image generated from prompt.
func (s *MediaService) GenerateImage(ctx context.Context, prompt string, size media.ImageSize) (string, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MediaService.GenerateImage")
	defer span.End()

	img, err := s.generator.GenerateImage(ctx, prompt, size)
	if err != nil {
		slog.Error("Failed to generate image", "error", err)

		return "", err
	}

	return DataURL(img), nil
}

// EditImage applies prompt to image, defaulting to a plain enhancement.
func (s *MediaService) EditImage(ctx context.Context, image, prompt string) (string, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MediaService.EditImage")
	defer span.End()

	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultEditPrompt
	}

	img, err := s.generator.EditImage(ctx, image, prompt)
	if err != nil {
		slog.Error("Failed to edit image", "error", err)

		return "", err
	}

	return DataURL(img), nil
}

// GenerateVideo animates image. The returned clip is held in memory.
func (s *MediaService) GenerateVideo(
	ctx context.Context,
	image, prompt string,
	aspectRatio media.AspectRatio,
) (media.Video, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MediaService.GenerateVideo")
	defer span.End()

	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultVideoPrompt
	}

	video, err := s.generator.GenerateVideo(ctx, image, prompt, aspectRatio)
	if err != nil {
		slog.Error("Failed to generate video", "error", err)

		return media.Video{}, err
	}

	slog.Info("Video generated", "bytes", len(video.Data))

	return video, nil
}

// GenerateMenuPhoto renders a catalog photo for a dish and returns it as a data URL.
func (s *MediaService) GenerateMenuPhoto(ctx context.Context, name, description string) (string, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "MediaService.GenerateMenuPhoto")
	defer span.End()

	return s.GenerateImage(ctx, fmt.Sprintf(menuPhotoPrompt, name, description), media.ImageSize1K)
}

// DataURL encodes an image as a PNG data URL.
func DataURL(img media.Image) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.Data)
}
