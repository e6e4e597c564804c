package interactor

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

type mockPersonaRepo struct {
	mu       sync.Mutex
	personas map[string]*models.Persona
	saves    int
	getErr   error
}

func newMockPersonaRepo(personas ...*models.Persona) *mockPersonaRepo {
	m := &mockPersonaRepo{personas: make(map[string]*models.Persona)}
	for _, p := range personas {
		m.personas[p.ID] = p.Clone()
	}
	return m
}

func (m *mockPersonaRepo) Save(_ context.Context, p *models.Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.personas[p.ID] = p.Clone()
	return nil
}

func (m *mockPersonaRepo) GetByID(_ context.Context, id string) (*models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.personas[id].Clone(), nil
}

func (m *mockPersonaRepo) GetAll(_ context.Context) ([]*models.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Persona, 0, len(m.personas))
	for _, p := range m.personas {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockPersonaRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.personas[id]; !ok {
		return false, nil
	}
	delete(m.personas, id)
	return true, nil
}

type mockPostRepo struct {
	mu      sync.Mutex
	posts   []*models.LinkedInPost
	saveErr error
}

func (m *mockPostRepo) Save(_ context.Context, p *models.LinkedInPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.posts = append(m.posts, p.Clone())
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*models.LinkedInPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (m *mockPostRepo) GetByPersona(_ context.Context, personaID string) ([]*models.LinkedInPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.LinkedInPost
	for _, p := range m.posts {
		if p.PersonaID == personaID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *mockPostRepo) GetAll(_ context.Context) ([]*models.LinkedInPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.LinkedInPost, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *mockPostRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

var errStageFailed = errors.New("upstream unavailable")

// mockGenerator records the calls it receives. failAt selects a stage (1-3) that errors.
type mockGenerator struct {
	mu     sync.Mutex
	calls  []string
	failAt int

	topicHint         string
	additionalContext string
	contentPrompt     string
	imageContent      string
	imageAnalysis     string
}

func (m *mockGenerator) GenerateMarketAnalysisAndPrompt(_ context.Context, _ *models.Persona, topicHint, additionalContext string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "analysis")
	m.topicHint = topicHint
	m.additionalContext = additionalContext
	if m.failAt == 1 {
		return "", "", errStageFailed
	}
	return "analysis text", "prompt text", nil
}

func (m *mockGenerator) GeneratePostContent(_ context.Context, generationPrompt string, _ *models.Persona) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "content")
	m.contentPrompt = generationPrompt
	if m.failAt == 2 {
		return "", errStageFailed
	}
	return "post body", nil
}

func (m *mockGenerator) GenerateImagePrompt(_ context.Context, postContent, marketAnalysis string, _ *models.Persona) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "image")
	m.imageContent = postContent
	m.imageAnalysis = marketAnalysis
	if m.failAt == 3 {
		return "", errStageFailed
	}
	return "image prompt", nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testPersona(id string) *models.Persona {
	return &models.Persona{
		ID:             id,
		Name:           "Test Persona",
		Niche:          "Cloud Infrastructure",
		TargetAudience: "Platform engineers",
		Localization:   "English (US)",
		Tone:           "professional",
		ContentThemes:  []string{"kubernetes", "cost"},
	}
}
