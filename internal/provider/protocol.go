package provider

import (
	"context"
	"strings"
)

// Protocol defines the interface for sending one chat completion to an LLM backend.
type Protocol interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatMessage represents a message in the chat
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatCompletionRequest represents a chat completion request. A nil
// Temperature leaves the parameter out of the outgoing request.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// ChatCompletionResponse carries the text of the first choice.
type ChatCompletionResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// SupportsCustomTemperature reports whether model accepts a caller-chosen
// temperature. The gpt-5 family and the o-series reasoning models only run at
// their default.
func SupportsCustomTemperature(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	if strings.HasPrefix(m, "gpt-5") {
		return false
	}
	for _, prefix := range []string{"o1", "o3", "o4"} {
		if m == prefix || strings.HasPrefix(m, prefix+"-") {
			return false
		}
	}
	return true
}

// Temperature returns a pointer to t when model accepts it, nil otherwise.
func Temperature(model string, t float32) *float32 {
	if !SupportsCustomTemperature(model) {
		return nil
	}
	return &t
}
