// Package ai generates example sentences for the sentence review mode.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ChatGPT represents a client for the OpenAI chat completions API. It asks
// for a short sentence that wraps the target word in ** markers.
type ChatGPT struct {
	apiKey      string
	apiURL      string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewChatGPT creates a new client with the given API key.
func NewChatGPT(apiKey string) *ChatGPT {
	return &ChatGPT{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		maxTokens:   100,
		temperature: 0.7,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate produces an example sentence containing **word**.
func (c *ChatGPT) Generate(word, translation string) (string, error) {
	prompt := fmt.Sprintf(
		"Write one short English sentence that naturally uses the word '%s' (meaning: %s). Wrap that word in double asterisks, like **%s**. Reply with the sentence only.",
		word, translation, word,
	)

	request := ChatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []Message{
			{Role: "system", Content: "You are an assistant for English vocabulary learners. You write clear, natural example sentences."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	sentence := strings.TrimSpace(response.Choices[0].Message.Content)
	if !strings.Contains(sentence, "**"+word+"**") {
		// The model sometimes forgets the markers; add them so the prompt
		// always highlights the target word.
		sentence = strings.Replace(sentence, word, "**"+word+"**", 1)
	}
	return sentence, nil
}

// Static is a fallback generator used when no API key is configured.
type Static struct{}

// Generate returns a fixed template sentence around the word.
func (Static) Generate(word, translation string) (string, error) {
	return fmt.Sprintf("I enjoy eating **%s** when the weather is nice.", word), nil
}
