package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/internal/provider"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

var (
	_ interactor.GenerationService = (*LiveService)(nil)
	_ interactor.GenerationService = (*MockService)(nil)
	_ interactor.GenerationService = (*InstrumentedService)(nil)
)

// fakeProtocol returns canned replies in order and records every request.
type fakeProtocol struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []*provider.ChatCompletionRequest
}

func (f *fakeProtocol) CreateChatCompletion(_ context.Context, req *provider.ChatCompletionRequest) (*provider.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	reply := ""
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	return &provider.ChatCompletionResponse{Model: req.Model, Content: reply}, nil
}

func testPersona() *models.Persona {
	return &models.Persona{
		ID:                    "tech-ceo",
		Name:                  "Alex Chen",
		Niche:                 "SaaS Leadership",
		TargetAudience:        "Startup founders",
		Localization:          "English (US)",
		Tone:                  "inspirational",
		Industry:              "Technology",
		ExperienceLevel:       "executive",
		ContentThemes:         []string{"scaling", "hiring"},
		EngagementStyle:       "storytelling",
		PersonalBrandKeywords: []string{"servant leadership", "growth"},
		PostingFrequency:      "weekly",
	}
}

func TestLiveServiceRequiresCredentialLazily(t *testing.T) {
	fake := &fakeProtocol{}
	svc := NewLiveService(provider.Config{}, WithProtocol(fake))

	_, _, err := svc.GenerateMarketAnalysisAndPrompt(context.Background(), testPersona(), "", "")
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "OPENAI_API_KEY", cfgErr.Setting)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Empty(t, fake.requests, "no request may be sent without a key")

	gemini := NewLiveService(provider.Config{Type: provider.TypeGemini})
	_, err = gemini.GeneratePostContent(context.Background(), "prompt", testPersona())
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GEMINI_API_KEY", cfgErr.Setting)
}

func TestLiveServiceDefaultModels(t *testing.T) {
	assert.Equal(t, "gpt-5", NewLiveService(provider.Config{}).Model())
	assert.Equal(t, "gemini-2.5-flash", NewLiveService(provider.Config{Type: "gemini"}).Model())
	assert.Equal(t, "gpt-4o", NewLiveService(provider.Config{Model: "gpt-4o"}).Model())
}

func TestLiveServiceStageTemperatures(t *testing.T) {
	fake := &fakeProtocol{replies: []string{
		"MARKET ANALYSIS: hot market\nGENERATION PROMPT: write it",
		"  the post  ",
		"\nan image\n",
	}}
	svc := NewLiveService(provider.Config{APIKey: "k", Model: "gpt-4o"}, WithProtocol(fake))
	ctx := context.Background()
	p := testPersona()

	analysis, prompt, err := svc.GenerateMarketAnalysisAndPrompt(ctx, p, "hiring", "Q3")
	require.NoError(t, err)
	assert.Equal(t, "hot market", analysis)
	assert.Equal(t, "write it", prompt)

	content, err := svc.GeneratePostContent(ctx, prompt, p)
	require.NoError(t, err)
	assert.Equal(t, "the post", content)

	image, err := svc.GenerateImagePrompt(ctx, content, analysis, p)
	require.NoError(t, err)
	assert.Equal(t, "an image", image)

	require.Len(t, fake.requests, 3)
	for i, want := range []float32{0.8, 0.9, 0.7} {
		req := fake.requests[i]
		require.NotNil(t, req.Temperature, "stage %d", i+1)
		assert.InDelta(t, want, *req.Temperature, 1e-6, "stage %d", i+1)
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, provider.RoleSystem, req.Messages[0].Role)
	}

	user := fake.requests[0].Messages[1].Content
	assert.Contains(t, user, "Name: Alex Chen")
	assert.Contains(t, user, "Topic Hint: hiring")
	assert.Contains(t, user, "Additional Context: Q3")
	assert.Equal(t, "write it", fake.requests[1].Messages[1].Content)
	assert.Contains(t, fake.requests[2].Messages[1].Content, "the post")
	assert.Contains(t, fake.requests[2].Messages[1].Content, "hot market")
}

func TestLiveServiceOmitsTemperatureForGPT5(t *testing.T) {
	fake := &fakeProtocol{replies: []string{"a GENERATION PROMPT: b", "c", "d"}}
	svc := NewLiveService(provider.Config{APIKey: "k"}, WithProtocol(fake))
	ctx := context.Background()

	_, _, err := svc.GenerateMarketAnalysisAndPrompt(ctx, testPersona(), "", "")
	require.NoError(t, err)
	_, err = svc.GeneratePostContent(ctx, "b", testPersona())
	require.NoError(t, err)
	_, err = svc.GenerateImagePrompt(ctx, "c", "a", testPersona())
	require.NoError(t, err)

	for _, req := range fake.requests {
		assert.Equal(t, "gpt-5", req.Model)
		assert.Nil(t, req.Temperature)
	}
}

func TestLiveServiceOmitsAbsentHints(t *testing.T) {
	fake := &fakeProtocol{replies: []string{"x GENERATION PROMPT: y"}}
	svc := NewLiveService(provider.Config{APIKey: "k"}, WithProtocol(fake))

	_, _, err := svc.GenerateMarketAnalysisAndPrompt(context.Background(), testPersona(), "", "")
	require.NoError(t, err)
	user := fake.requests[0].Messages[1].Content
	assert.NotContains(t, user, "Topic Hint:")
	assert.NotContains(t, user, "Additional Context:")
}

func TestLiveServicePropagatesProviderErrors(t *testing.T) {
	boom := errors.New("rate limited")
	svc := NewLiveService(provider.Config{APIKey: "k"}, WithProtocol(&fakeProtocol{err: boom}))

	_, err := svc.GeneratePostContent(context.Background(), "p", testPersona())
	assert.ErrorIs(t, err, boom)
}

func TestLiveServiceBuildsProtocolOnce(t *testing.T) {
	builds := 0
	fake := &fakeProtocol{replies: []string{"one", "two"}}
	svc := NewLiveService(provider.Config{APIKey: "k"})
	svc.newProtocol = func(context.Context, provider.Config) (provider.Protocol, error) {
		builds++
		return fake, nil
	}

	_, err := svc.GeneratePostContent(context.Background(), "p", testPersona())
	require.NoError(t, err)
	_, err = svc.GeneratePostContent(context.Background(), "p", testPersona())
	require.NoError(t, err)
	assert.Equal(t, 1, builds)
}

func TestSplitAnalysisResponse(t *testing.T) {
	analysis, prompt, lossy := splitAnalysisResponse("1. MARKET ANALYSIS: trends are up\n\n2. GENERATION PROMPT:\n  Write a post  ")
	assert.False(t, lossy)
	assert.Equal(t, "1.  trends are up\n\n2.", analysis)
	assert.Equal(t, "Write a post", prompt)

	analysis, prompt, lossy = splitAnalysisResponse("abcdef")
	assert.True(t, lossy)
	assert.Equal(t, "abc", analysis)
	assert.Equal(t, "def", prompt)
}

func TestSplitAnalysisResponseFallbackIsRuneSafe(t *testing.T) {
	text := "Análise de mercado para São Paulo: inovação contínua"
	analysis, prompt, lossy := splitAnalysisResponse(text)
	require.True(t, lossy)
	assert.True(t, utf8.ValidString(analysis))
	assert.True(t, utf8.ValidString(prompt))

	runes := []rune(text)
	assert.Equal(t, strings.TrimSpace(string(runes[:len(runes)/2])), analysis)
	assert.Equal(t, strings.TrimSpace(string(runes[len(runes)/2:])), prompt)
}
