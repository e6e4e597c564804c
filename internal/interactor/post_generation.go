package interactor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// PostGenerationInteractor runs the three-stage generation pipeline and
// exposes read access to generated posts.
type PostGenerationInteractor struct {
	personas  PersonaRepository
	posts     PostRepository
	generator GenerationService

	newID func() string
	now   func() time.Time
}

// Option customizes a PostGenerationInteractor.
type Option func(*PostGenerationInteractor)

// WithIDGenerator replaces the random UUID source for post IDs.
func WithIDGenerator(fn func() string) Option {
	return func(i *PostGenerationInteractor) { i.newID = fn }
}

// WithClock replaces time.Now for post timestamps.
func WithClock(fn func() time.Time) Option {
	return func(i *PostGenerationInteractor) { i.now = fn }
}

func NewPostGenerationInteractor(personas PersonaRepository, posts PostRepository, generator GenerationService, opts ...Option) *PostGenerationInteractor {
	i := &PostGenerationInteractor{
		personas:  personas,
		posts:     posts,
		generator: generator,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Generate resolves the persona, runs the stages in order and persists the
// resulting post. Any failure aborts the pipeline before anything is written.
func (i *PostGenerationInteractor) Generate(ctx context.Context, req *models.PostGenerationRequest) (*models.LinkedInPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	persona, err := i.personas.GetByID(ctx, req.PersonaID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up persona %s: %w", req.PersonaID, err)
	}
	if persona == nil {
		return nil, &NotFoundError{Kind: "persona", ID: req.PersonaID}
	}

	marketAnalysis, generationPrompt, err := i.generator.GenerateMarketAnalysisAndPrompt(ctx, persona, req.TopicHint, req.AdditionalContext)
	if err != nil {
		return nil, fmt.Errorf("market analysis stage failed: %w", err)
	}

	content, err := i.generator.GeneratePostContent(ctx, generationPrompt, persona)
	if err != nil {
		return nil, fmt.Errorf("post content stage failed: %w", err)
	}

	imagePrompt, err := i.generator.GenerateImagePrompt(ctx, content, marketAnalysis, persona)
	if err != nil {
		return nil, fmt.Errorf("image prompt stage failed: %w", err)
	}

	post, err := models.NewLinkedInPost(models.LinkedInPost{
		ID:               i.newID(),
		PersonaID:        req.PersonaID,
		Content:          content,
		ImagePrompt:      imagePrompt,
		MarketAnalysis:   marketAnalysis,
		GenerationPrompt: generationPrompt,
		CreatedAt:        i.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := i.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post %s: %w", post.ID, err)
	}
	return post, nil
}

// GetPost returns nil when the post does not exist.
func (i *PostGenerationInteractor) GetPost(ctx context.Context, id string) (*models.LinkedInPost, error) {
	return i.posts.GetByID(ctx, id)
}

func (i *PostGenerationInteractor) GetPostsByPersona(ctx context.Context, personaID string) ([]*models.LinkedInPost, error) {
	return i.posts.GetByPersona(ctx, personaID)
}

func (i *PostGenerationInteractor) GetAllPosts(ctx context.Context) ([]*models.LinkedInPost, error) {
	return i.posts.GetAll(ctx)
}
