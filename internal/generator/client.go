// Package generator is a thin request/response adapter to the external
// prompt-generation service.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/promptdock/promptdock/internal/errors"
)

// Request carries the inputs for one generation call.
type Request struct {
	Purpose     string `json:"purpose"`
	Rules       string `json:"rules"`
	Language    string `json:"language"`
	ProjectPath string `json:"project_path"`
}

// GeneratedPrompt is the service's description of the prompt it produced.
// Path points at a file the service has already written; the caller performs
// no further write.
type GeneratedPrompt struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	Path    string `json:"path"`
}

// response is the service's success/failure envelope.
type response struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Prompt  *GeneratedPrompt `json:"prompt"`
}

// Client calls the generation service over HTTP. The underlying client has
// no timeout: a hung service hangs the originating action, which is the
// documented behavior rather than a silent partial result.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Generate runs one generation call. Service-reported failures surface their
// error text verbatim; transport failures are wrapped as external-service
// errors. Calls are never retried.
func (c *Client) Generate(ctx context.Context, req Request) (*GeneratedPrompt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode generation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to build generation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGenerationFailed, "generation service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.GenerationError(fmt.Sprintf("generation service returned status %d", resp.StatusCode))
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGenerationFailed, "failed to decode generation response")
	}

	if !envelope.Success {
		return nil, errors.GenerationError(envelope.Error)
	}
	if envelope.Prompt == nil {
		return nil, errors.GenerationError("generation service returned no prompt")
	}
	return envelope.Prompt, nil
}
