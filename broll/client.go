package broll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.deepseek.com/chat/completions"
	defaultModel    = "deepseek-chat"
)

const systemPrompt = "You help a video editor find stock b-roll. " +
	"Given a fragment of voiceover narration, reply with a JSON array of " +
	"2-4 short English search queries for a stock footage site. Queries " +
	"must be concrete and visual. Reply with the JSON array only."

// Client talks to a DeepSeek-compatible chat completion endpoint.
type Client struct {
	http     *http.Client
	apiKey   string
	endpoint string
	model    string
}

func NewClient(apiKey string) *Client {
	return &Client{
		http:     &http.Client{Timeout: 60 * time.Second},
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		model:    defaultModel,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat completion round-trip and returns the assistant
// message text.
func (c *Client) Complete(ctx context.Context, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("missing API key (set DEEPSEEK_API_KEY)")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding completion response: %v", err)
	}
	if payload.Error != nil {
		return "", fmt.Errorf("completion API error: %s", payload.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d", resp.StatusCode)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return payload.Choices[0].Message.Content, nil
}

// Suggest asks the model for stock-footage queries for one voiceover
// fragment.
func (c *Client) Suggest(ctx context.Context, voiceover string) ([]string, error) {
	raw, err := c.Complete(ctx, TruncateQuery(voiceover, maxPromptRunes))
	if err != nil {
		return nil, err
	}
	queries := ParseSuggestions(raw)
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries in model reply: %q", TruncateQuery(raw, 80))
	}
	return queries, nil
}
