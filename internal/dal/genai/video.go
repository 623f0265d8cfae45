package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/media"
)

// GenerateVideo animates an image and downloads the resulting clip.
// It polls the long-running operation until it is done, the video timeout elapses or ctx is cancelled.
func (c *Client) GenerateVideo(
	ctx context.Context,
	image, prompt string,
	aspectRatio media.AspectRatio,
) (media.Video, error) {
	const op = "generate video"

	ctx, cancel := context.WithTimeout(ctx, c.videoTimeout)
	defer cancel()

	req := predictRequest{
		Instances: []videoInstance{{
			Prompt: prompt,
			Image:  &videoImage{BytesBase64Encoded: StripDataURL(image), MIMEType: "image/png"},
		}},
		Parameters: videoParameters{
			AspectRatio:    string(aspectRatio),
			Resolution:     "720p",
			NumberOfVideos: 1,
		},
	}

	var opResp operation
	startURL := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, VideoModel)
	if err := c.do(ctx, op, http.MethodPost, startURL, req, &opResp); err != nil {
		return media.Video{}, timeoutError(op, err)
	}

	slog.Info("Video generation started", "operation", opResp.Name)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for !opResp.Done {
		select {
		case <-ctx.Done():
			return media.Video{}, timeoutError(op, ctx.Err())
		case <-ticker.C:
		}

		name := opResp.Name
		if err := c.do(ctx, op, http.MethodGet, c.baseURL+"/"+name, nil, &opResp); err != nil {
			return media.Video{}, timeoutError(op, err)
		}
		if opResp.Name == "" {
			opResp.Name = name
		}
	}

	if opResp.Error != nil {
		return media.Video{}, statusError(op, opResp.Error.Code, opResp.Error.Message)
	}

	uri := opResp.videoURI()
	if uri == "" {
		return media.Video{}, &GenerationError{Op: op, Reason: "operation returned no video uri"}
	}

	return c.download(ctx, op, uri)
}

func (c *Client) download(ctx context.Context, op, uri string) (media.Video, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+url.QueryEscape(c.apiKey), nil)
	if err != nil {
		return media.Video{}, &GenerationError{Op: op, Reason: "invalid video uri", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return media.Video{}, timeoutError(op, &GenerationError{Op: op, Reason: "failed to download video", Err: err})
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return media.Video{}, &GenerationError{
			Op:     op,
			Reason: fmt.Sprintf("failed to download video: status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxVideoBytes+1))
	if err != nil {
		return media.Video{}, &GenerationError{Op: op, Reason: "failed to read video", Err: err}
	}
	if int64(len(data)) > c.maxVideoBytes {
		return media.Video{}, &GenerationError{
			Op:     op,
			Reason: fmt.Sprintf("video is larger than %d bytes", c.maxVideoBytes),
			Err:    ErrVideoTooLarge,
		}
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	return media.Video{Data: data, MIMEType: mimeType}, nil
}

// timeoutError marks deadline failures with ErrTimeout and passes everything else through.
func timeoutError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}

	return err
}
