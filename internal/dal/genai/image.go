package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/models/media"
)

// GenerateImage creates a square image from a text prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string, size media.ImageSize) (media.Image, error) {
	const op = "generate image"

	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{
				ImageSize:   string(size),
				AspectRatio: "1:1",
			},
		},
	}

	return c.generateImage(ctx, op, ImageModel, req)
}

// EditImage applies a text instruction to an image. The image may be raw base64 or a data URL.
func (c *Client) EditImage(ctx context.Context, image, prompt string) (media.Image, error) {
	const op = "edit image"

	req := generateContentRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MIMEType: "image/png", Data: StripDataURL(image)}},
			{Text: prompt},
		}}},
	}

	return c.generateImage(ctx, op, EditImageModel, req)
}

func (c *Client) generateImage(ctx context.Context, op, model string, req generateContentRequest) (media.Image, error) {
	var resp generateContentResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	if err := c.do(ctx, op, http.MethodPost, url, req, &resp); err != nil {
		return media.Image{}, err
	}

	data := resp.firstInlineData()
	if data == nil {
		return media.Image{}, &GenerationError{Op: op, Reason: "no image returned"}
	}

	raw, err := base64.StdEncoding.DecodeString(data.Data)
	if err != nil {
		return media.Image{}, &GenerationError{Op: op, Reason: "malformed image payload", Err: err}
	}

	mimeType := data.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	return media.Image{Data: raw, MIMEType: mimeType}, nil
}
