package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mbharti12/goal-tracker/internal/apperror"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type LlmHealthPayload struct {
	Reachable bool    `json:"reachable"`
	Model     string  `json:"model"`
	BaseURL   string  `json:"base_url"`
	Error     *string `json:"error"`
}

// OllamaClient talks to a local Ollama server over its HTTP API.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *OllamaClient) Model() string {
	return c.model
}

func (c *OllamaClient) BaseURL() string {
	return c.baseURL
}

// Chat sends a non-streaming chat completion request and returns the
// assistant message content.
func (c *OllamaClient) Chat(messages []ChatMessage, temperature float64) (string, error) {
	reqBody := ollamaChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		Stream:      false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.NewUnavailable("Ollama is not running. Start it with `ollama serve`.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperror.NewUnavailable(fmt.Sprintf("Ollama error: %s", string(body)))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", apperror.NewBadGateway("Ollama response missing content.")
	}
	if chatResp.Message.Content == "" {
		return "", apperror.NewBadGateway("Ollama response missing content.")
	}

	return chatResp.Message.Content, nil
}

// Health probes the server version endpoint. It reports reachability in
// the payload rather than failing, so the endpoint always answers 200.
func (c *OllamaClient) Health() LlmHealthPayload {
	payload := LlmHealthPayload{
		Reachable: false,
		Model:     c.model,
		BaseURL:   c.baseURL,
	}

	req, err := http.NewRequest("GET", c.baseURL+"/api/version", nil)
	if err != nil {
		detail := err.Error()
		payload.Error = &detail
		return payload
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		detail := "Ollama is not running. Start it with `ollama serve`."
		payload.Error = &detail
		return payload
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("Ollama returned status %d.", resp.StatusCode)
		payload.Error = &detail
		return payload
	}

	payload.Reachable = true
	return payload
}
