package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client posts prompts to a running server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Send returns the reply text; ok is false when the server answered without
// a response field.
func (c *Client) Send(ctx context.Context, prompt string) (reply string, ok bool, err error) {
	body, err := json.Marshal(PromptRequest{Prompt: prompt})
	if err != nil {
		return "", false, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return "", false, fmt.Errorf("server returned %d", resp.StatusCode)
		}
		return "", false, fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
	}

	var out PromptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decoding response: %w", err)
	}
	if out.Response == nil {
		return "", false, nil
	}
	return *out.Response, true, nil
}
