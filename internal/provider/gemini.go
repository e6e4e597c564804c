package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements Protocol on the Gemini API. System messages
// become the system instruction and user messages the content.
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, endpoint, apiKey string, timeout time.Duration) (*GeminiProvider, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(endpoint, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var system, user []string
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
		} else {
			user = append(user, msg.Content)
		}
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(*req.Temperature)
	}

	res, err := p.client.Models.GenerateContent(ctx, req.Model, genai.Text(strings.Join(user, "\n\n")), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	resp := &ChatCompletionResponse{
		Model:   req.Model,
		Content: res.Candidates[0].Content.Parts[0].Text,
	}
	if res.UsageMetadata != nil {
		resp.Usage = Usage{
			PromptTokens:     int(res.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(res.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(res.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}
