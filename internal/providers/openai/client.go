// Package openai wraps the two OpenAI endpoints the service consumes: the
// responses API for archetype classification and the image edits API for
// outfit generation. Both calls are stateless request/response wrappers.
package openai

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Options controls how the OpenAI client is configured.
type Options struct {
	APIKey        string
	BaseURL       string
	ClassifyModel string
	EditModel     string
	HTTPClient    *http.Client
	Timeout       time.Duration
}

// Client is a thin facade over the OpenAI HTTP API.
type Client struct {
	apiKey        string
	baseURL       string
	classifyModel string
	editModel     string
	httpClient    *http.Client
}

// New validates options and builds a client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	classifyModel := strings.TrimSpace(opts.ClassifyModel)
	if classifyModel == "" {
		classifyModel = "gpt-4.1-mini"
	}
	editModel := strings.TrimSpace(opts.EditModel)
	if editModel == "" {
		editModel = "gpt-image-1"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:        strings.TrimSpace(opts.APIKey),
		baseURL:       baseURL,
		classifyModel: classifyModel,
		editModel:     editModel,
		httpClient:    httpClient,
	}, nil
}
