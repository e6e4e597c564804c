package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// MemoryPersonaRepository keeps personas in a map for the life of the process.
type MemoryPersonaRepository struct {
	mu       sync.RWMutex
	personas map[string]*models.Persona
}

func NewMemoryPersonaRepository() *MemoryPersonaRepository {
	return &MemoryPersonaRepository{personas: make(map[string]*models.Persona)}
}

func (r *MemoryPersonaRepository) Save(_ context.Context, persona *models.Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas[persona.ID] = persona.Clone()
	return nil
}

func (r *MemoryPersonaRepository) GetByID(_ context.Context, id string) (*models.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[id].Clone(), nil
}

func (r *MemoryPersonaRepository) GetAll(_ context.Context) ([]*models.Persona, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	personas := make([]*models.Persona, 0, len(r.personas))
	for _, p := range r.personas {
		personas = append(personas, p.Clone())
	}
	sortPersonas(personas)
	return personas, nil
}

func (r *MemoryPersonaRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.personas[id]; !exists {
		return false, nil
	}
	delete(r.personas, id)
	return true, nil
}

// MemoryPostRepository keeps posts in a map for the life of the process.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.LinkedInPost
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]*models.LinkedInPost)}
}

func (r *MemoryPostRepository) Save(_ context.Context, post *models.LinkedInPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = post.Clone()
	return nil
}

func (r *MemoryPostRepository) GetByID(_ context.Context, id string) (*models.LinkedInPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.posts[id].Clone(), nil
}

func (r *MemoryPostRepository) GetByPersona(_ context.Context, personaID string) ([]*models.LinkedInPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]*models.LinkedInPost, 0)
	for _, p := range r.posts {
		if p.PersonaID == personaID {
			posts = append(posts, p.Clone())
		}
	}
	sortPosts(posts)
	return posts, nil
}

func (r *MemoryPostRepository) GetAll(_ context.Context) ([]*models.LinkedInPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]*models.LinkedInPost, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p.Clone())
	}
	sortPosts(posts)
	return posts, nil
}

func sortPersonas(personas []*models.Persona) {
	sort.Slice(personas, func(i, j int) bool { return personas[i].ID < personas[j].ID })
}

// sortPosts orders by creation time, then id.
func sortPosts(posts []*models.LinkedInPost) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
}
