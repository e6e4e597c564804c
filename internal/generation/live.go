package generation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jordanhubbard/linkodin/internal/provider"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

const (
	DefaultOpenAIModel = "gpt-5"
	DefaultGeminiModel = "gemini-2.5-flash"

	analysisTemperature float32 = 0.8
	contentTemperature  float32 = 0.9
	imageTemperature    float32 = 0.7
)

// LiveService runs each stage as one chat completion against a provider.
// The backend is built on first use, so a missing credential only surfaces
// when generation is attempted.
type LiveService struct {
	cfg provider.Config

	mu          sync.Mutex
	protocol    provider.Protocol
	newProtocol func(context.Context, provider.Config) (provider.Protocol, error)
}

// LiveOption customizes a LiveService.
type LiveOption func(*LiveService)

// WithProtocol supplies a ready backend instead of building one from the config.
func WithProtocol(p provider.Protocol) LiveOption {
	return func(s *LiveService) { s.protocol = p }
}

func NewLiveService(cfg provider.Config, opts ...LiveOption) *LiveService {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
		if strings.EqualFold(cfg.Type, provider.TypeGemini) {
			cfg.Model = DefaultGeminiModel
		}
	}
	s := &LiveService{cfg: cfg, newProtocol: provider.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the model identifier requests are sent with.
func (s *LiveService) Model() string {
	return s.cfg.Model
}

func credentialSetting(providerType string) string {
	if strings.EqualFold(providerType, provider.TypeGemini) {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func (s *LiveService) client(ctx context.Context) (provider.Protocol, error) {
	if s.cfg.APIKey == "" {
		setting := credentialSetting(s.cfg.Type)
		return nil, &ConfigurationError{
			Setting: setting,
			Message: fmt.Sprintf("API key is required for post generation. Please set the %s environment variable.", setting),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.protocol == nil {
		p, err := s.newProtocol(ctx, s.cfg)
		if err != nil {
			return nil, err
		}
		s.protocol = p
	}
	return s.protocol, nil
}

func (s *LiveService) complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	p, err := s.client(ctx)
	if err != nil {
		return "", err
	}
	resp, err := p.CreateChatCompletion(ctx, &provider.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []provider.ChatMessage{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
		Temperature: provider.Temperature(s.cfg.Model, temperature),
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (s *LiveService) GenerateMarketAnalysisAndPrompt(ctx context.Context, persona *models.Persona, topicHint, additionalContext string) (string, string, error) {
	content, err := s.complete(ctx, analysisSystemPrompt, analysisUserPrompt(persona, topicHint, additionalContext), analysisTemperature)
	if err != nil {
		return "", "", err
	}

	analysis, prompt, lossy := splitAnalysisResponse(content)
	if lossy {
		log.Printf("[Generation] Warning: response for persona %s had no %q section, split at midpoint", persona.ID, promptSeparator)
	}
	return analysis, prompt, nil
}

func (s *LiveService) GeneratePostContent(ctx context.Context, generationPrompt string, persona *models.Persona) (string, error) {
	content, err := s.complete(ctx, contentSystemPrompt, generationPrompt, contentTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (s *LiveService) GenerateImagePrompt(ctx context.Context, postContent, marketAnalysis string, persona *models.Persona) (string, error) {
	content, err := s.complete(ctx, imageSystemPrompt, imageUserPrompt(postContent, marketAnalysis, persona), imageTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
