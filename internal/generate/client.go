// Package generate drives the submit flow: build, validate, call the remote
// image API, and normalize the outcome into a history record.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hyprflux/hyprflux/internal/models"
)

// DefaultEndpoint is the generation endpoint of the HyprLab API.
const DefaultEndpoint = "https://api.hyprlab.io/v1/images/generations"

const fallbackErrorMessage = "Failed to generate image, no error msg caught, plz check response manually."

// Client is an HTTP client for the image generation API. One request per
// submit: no retry, no backoff, failures are terminal per attempt.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the given generation endpoint. An empty
// endpoint selects the default.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Result is the parsed success payload of one generation call.
type Result struct {
	ImageData     string // base64 image bytes, stored opaquely
	RevisedPrompt string
}

type generateResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// Generate POSTs the request body and returns the first generated image.
// Non-success responses come back as *APIError carrying the most readable
// message the response body offers.
func (c *Client) Generate(ctx context.Context, apiKey string, body models.FieldValues) (*Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: "generation request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(resp.StatusCode, respBody),
		}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	if len(genResp.Data) == 0 {
		return nil, &APIError{Status: resp.StatusCode, Message: "no images returned"}
	}

	return &Result{
		ImageData:     genResp.Data[0].B64JSON,
		RevisedPrompt: genResp.Data[0].RevisedPrompt,
	}, nil
}

// extractErrorMessage pulls a human-readable message out of an error
// response, trying in order: a nested error.message, a top-level message, a
// string-typed top-level error, the HTTP status text, and finally a fixed
// fallback. Any body shape degrades gracefully; nothing here can fail.
func extractErrorMessage(status int, body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
		}
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Error) > 0 {
			var errStr string
			if err := json.Unmarshal(payload.Error, &errStr); err == nil && errStr != "" {
				return errStr
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallbackErrorMessage
}
