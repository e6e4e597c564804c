package interactor

import (
	"context"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// PersonaRepository abstracts persona persistence for the interactors.
type PersonaRepository interface {
	// Save inserts or overwrites the persona with the same ID.
	Save(ctx context.Context, persona *models.Persona) error
	// GetByID returns nil and no error when the persona does not exist.
	GetByID(ctx context.Context, id string) (*models.Persona, error)
	GetAll(ctx context.Context) ([]*models.Persona, error)
	// Delete reports whether a persona existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// PostRepository abstracts post persistence for the interactors.
type PostRepository interface {
	Save(ctx context.Context, post *models.LinkedInPost) error
	// GetByID returns nil and no error when the post does not exist.
	GetByID(ctx context.Context, id string) (*models.LinkedInPost, error)
	GetByPersona(ctx context.Context, personaID string) ([]*models.LinkedInPost, error)
	GetAll(ctx context.Context) ([]*models.LinkedInPost, error)
}

// GenerationService runs the three generation stages. Implementations keep no
// state between calls.
type GenerationService interface {
	// GenerateMarketAnalysisAndPrompt is stage 1: market analysis plus a crafted prompt.
	GenerateMarketAnalysisAndPrompt(ctx context.Context, persona *models.Persona, topicHint, additionalContext string) (marketAnalysis, generationPrompt string, err error)
	// GeneratePostContent is stage 2: the post body from the stage 1 prompt.
	GeneratePostContent(ctx context.Context, generationPrompt string, persona *models.Persona) (string, error)
	// GenerateImagePrompt is stage 3: an image prompt for the finished post.
	GenerateImagePrompt(ctx context.Context, postContent, marketAnalysis string, persona *models.Persona) (string, error)
}
