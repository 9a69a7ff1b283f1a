package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/disintegration/imaging"

	"stylemate/internal/domain"
)

// ImageEditor is the remote generation contract consumed by the job actor.
type ImageEditor interface {
	EditImages(ctx context.Context, req ImageEditRequest) ([][]byte, error)
}

// ImageEditRequest describes one generation call. Images are sent in order;
// the first is the base body photo, the second the face identity reference.
type ImageEditRequest struct {
	Prompt string
	Size   string
	Count  int
	Images []ImagePart
}

type imageEditResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// EditImages calls the image edits endpoint and returns the decodable
// candidates as PNG bytes, in response order. A non-2xx response or a response
// with zero decodable images is a failure.
func (c *Client) EditImages(ctx context.Context, req ImageEditRequest) ([][]byte, error) {
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("openai: at least one reference image is required")
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model", c.editModel); err != nil {
		return nil, err
	}
	if err := mw.WriteField("prompt", req.Prompt); err != nil {
		return nil, err
	}
	if req.Size != "" {
		if err := mw.WriteField("size", req.Size); err != nil {
			return nil, err
		}
	}
	if err := mw.WriteField("n", fmt.Sprintf("%d", req.Count)); err != nil {
		return nil, err
	}
	for i, img := range req.Images {
		part, err := mw.CreateFormFile("image[]", fmt.Sprintf("ref_%d.png", i+1))
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: image edit request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read image edit response: %w", err)
	}
	var out imageEditResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("openai: image edit http %d: %w", resp.StatusCode, domain.ErrUpstreamFailure)
		}
		return nil, fmt.Errorf("openai: decode image edit response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != nil && out.Error.Message != "" {
			return nil, fmt.Errorf("openai: %s: %w", out.Error.Message, domain.ErrUpstreamFailure)
		}
		return nil, fmt.Errorf("openai: image edit http %d: %w", resp.StatusCode, domain.ErrUpstreamFailure)
	}

	images := make([][]byte, 0, len(out.Data))
	for _, d := range out.Data {
		if d.B64JSON == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			continue
		}
		// Undecodable candidates are dropped rather than failing the batch.
		if _, err := imaging.Decode(bytes.NewReader(decoded)); err != nil {
			continue
		}
		images = append(images, decoded)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("openai: no decodable images in response: %w", domain.ErrUpstreamFailure)
	}
	return images, nil
}

var _ ImageEditor = (*Client)(nil)
