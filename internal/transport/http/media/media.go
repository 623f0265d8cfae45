package media

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/atlas-cafe/internal/dal/genai"
	mediamodel "github.com/corray333/atlas-cafe/internal/service/models/media"
	"github.com/corray333/atlas-cafe/internal/transport/http/render"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	GenerateImage(ctx context.Context, prompt string, size mediamodel.ImageSize) (string, error)
	EditImage(ctx context.Context, image, prompt string) (string, error)
	GenerateVideo(ctx context.Context, image, prompt string, aspectRatio mediamodel.AspectRatio) (mediamodel.Video, error)
}

// imageResponse carries a generated image as a data URL.
type imageResponse struct {
	Image string `json:"image"`
}

// generateImageRequest represents a generate image request.
type generateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Size   string `json:"size"   validate:"omitempty,oneof=1K 2K 4K"`
}

// Validate validates the generate image request.
func (r *generateImageRequest) Validate() error {
	return validator.New().Struct(r)
}

// GenerateImage handles the generate image request.
func GenerateImage(w http.ResponseWriter, r *http.Request, service service) {
	req := generateImageRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	size := mediamodel.ImageSize1K
	if req.Size != "" {
		parsed, err := mediamodel.ParseImageSize(req.Size)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		size = parsed
	}

	image, err := service.GenerateImage(r.Context(), req.Prompt, size)
	if err != nil {
		WriteGenerationError(w, err)

		return
	}

	render.JSON(w, http.StatusOK, imageResponse{Image: image})
}

// editImageRequest represents an edit image request.
type editImageRequest struct {
	Image  string `json:"image" validate:"required"`
	Prompt string `json:"prompt"`
}

// Validate validates the edit image request.
func (r *editImageRequest) Validate() error {
	return validator.New().Struct(r)
}

// EditImage handles the edit image request.
func EditImage(w http.ResponseWriter, r *http.Request, service service) {
	req := editImageRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	image, err := service.EditImage(r.Context(), req.Image, req.Prompt)
	if err != nil {
		WriteGenerationError(w, err)

		return
	}

	render.JSON(w, http.StatusOK, imageResponse{Image: image})
}

// generateVideoRequest represents a generate video request.
type generateVideoRequest struct {
	Image       string `json:"image"       validate:"required"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio" validate:"omitempty,oneof=16:9 9:16"`
}

// Validate validates the generate video request.
func (r *generateVideoRequest) Validate() error {
	return validator.New().Struct(r)
}

// GenerateVideo handles the generate video request and streams back the clip.
func GenerateVideo(w http.ResponseWriter, r *http.Request, service service) {
	req := generateVideoRequest{}
	if !render.Decode(w, r, &req) {
		return
	}

	aspectRatio := mediamodel.AspectRatioLandscape
	if req.AspectRatio != "" {
		parsed, err := mediamodel.ParseAspectRatio(req.AspectRatio)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		aspectRatio = parsed
	}

	video, err := service.GenerateVideo(r.Context(), req.Image, req.Prompt, aspectRatio)
	if err != nil {
		WriteGenerationError(w, err)

		return
	}

	w.Header().Set("Content-Type", video.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(video.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(video.Data); err != nil {
		slog.Error("Error sending video", "error", err)
	}
}

// WriteGenerationError maps generation failures to statuses clients can act on:
// 401 asks for a new key, 504 for a retry, 502 for anything the provider got wrong.
func WriteGenerationError(w http.ResponseWriter, err error) {
	switch {
	case genai.IsCredentials(err):
		render.Error(w, http.StatusUnauthorized, "credentials", err)
	case errors.Is(err, genai.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		render.Error(w, http.StatusGatewayTimeout, "timeout", err)
	default:
		render.Error(w, http.StatusBadGateway, "generation", err)
	}
}
