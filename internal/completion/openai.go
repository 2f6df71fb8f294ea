package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docqa/docqa-mcp/pkg/types"
)

const (
	// DefaultChatBaseURL is the API root for the hosted service; tests and
	// self-hosted gateways override it.
	DefaultChatBaseURL = "https://api.openai.com/v1"

	// DefaultTemperature keeps answers grounded without being rigid.
	DefaultTemperature = 0.7

	defaultChatTimeout = 60 * time.Second

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// ChatConfig configures the OpenAI-compatible chat client.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIChat implements Completion against an OpenAI-compatible
// /chat/completions endpoint.
type OpenAIChat struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOpenAIChat creates a chat client. The API key and model are required.
func NewOpenAIChat(cfg ChatConfig) (*OpenAIChat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", types.ErrCompletionService)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: missing model", types.ErrCompletionService)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultChatBaseURL
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChatTimeout
	}

	return &OpenAIChat{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *OpenAIChat) Generate(ctx context.Context, prompt string) (string, error) {
	var answer string
	var err error

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", types.ErrCompletionService, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		answer, err = c.callAPI(ctx, prompt)
		if err == nil {
			return answer, nil
		}
	}

	return "", fmt.Errorf("%w: %v", types.ErrCompletionService, err)
}

func (c *OpenAIChat) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":       c.model,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Choices[0].Message.Content, nil
}

func (c *OpenAIChat) Model() string {
	return c.model
}

func (c *OpenAIChat) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
