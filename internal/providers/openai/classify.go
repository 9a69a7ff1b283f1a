package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"stylemate/internal/domain"
)

// Classifier is the contract consumed by the classification endpoint.
type Classifier interface {
	Classify(ctx context.Context, face, full ImagePart) (domain.Archetype, string, error)
}

// ImagePart is one reference photo sent to the model.
type ImagePart struct {
	Data []byte
	MIME string
}

// DataURL encodes the image as a data: URL for inline transport.
func (p ImagePart) DataURL() string {
	mime := p.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

type responsesRequest struct {
	Model string          `json:"model"`
	Input []responsesItem `json:"input"`
}

type responsesItem struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

type responsesContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responsesResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Classify sends the face and full-body photos to the responses API and parses
// the archetype JSON out of the model's free-form answer. The raw model text is
// returned alongside the normalized result for client display.
func (c *Client) Classify(ctx context.Context, face, full ImagePart) (domain.Archetype, string, error) {
	payload := responsesRequest{
		Model: c.classifyModel,
		Input: []responsesItem{{
			Role: "user",
			Content: []responsesContent{
				{Type: "input_text", Text: classifyPrompt},
				{Type: "input_image", ImageURL: face.DataURL()},
				{Type: "input_image", ImageURL: full.DataURL()},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Archetype{}, "", fmt.Errorf("openai: encode classify request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return domain.Archetype{}, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Archetype{}, "", fmt.Errorf("openai: classify request: %w", err)
	}
	defer resp.Body.Close()

	var out responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return domain.Archetype{}, "", fmt.Errorf("openai: classify http %d: %w", resp.StatusCode, domain.ErrUpstreamFailure)
		}
		return domain.Archetype{}, "", fmt.Errorf("openai: decode classify response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != nil && out.Error.Message != "" {
			return domain.Archetype{}, "", fmt.Errorf("openai: %s: %w", out.Error.Message, domain.ErrUpstreamFailure)
		}
		return domain.Archetype{}, "", fmt.Errorf("openai: classify http %d: %w", resp.StatusCode, domain.ErrUpstreamFailure)
	}

	text := extractOutputText(out)
	archetype, err := domain.ExtractArchetype(text)
	if err != nil {
		return domain.Archetype{}, text, fmt.Errorf("openai: %v: %w", err, domain.ErrUpstreamFailure)
	}
	return archetype, text, nil
}

// extractOutputText flattens the responses payload. The convenience
// output_text field wins when present.
func extractOutputText(resp responsesResponse) string {
	if resp.OutputText != "" {
		return strings.TrimSpace(resp.OutputText)
	}
	var sb strings.Builder
	for _, item := range resp.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				sb.WriteString(c.Text)
				sb.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

var _ Classifier = (*Client)(nil)
