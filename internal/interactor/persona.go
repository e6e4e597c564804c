package interactor

import (
	"context"
	"fmt"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// PersonaInteractor holds the persona management use cases.
type PersonaInteractor struct {
	personas PersonaRepository
}

func NewPersonaInteractor(personas PersonaRepository) *PersonaInteractor {
	return &PersonaInteractor{personas: personas}
}

// Create stores a new persona. It fails with *models.ValidationError for an
// incomplete persona and *DuplicateError when the ID is taken.
func (i *PersonaInteractor) Create(ctx context.Context, persona *models.Persona) error {
	if err := persona.Validate(); err != nil {
		return err
	}
	existing, err := i.personas.GetByID(ctx, persona.ID)
	if err != nil {
		return fmt.Errorf("failed to look up persona %s: %w", persona.ID, err)
	}
	if existing != nil {
		return &DuplicateError{Kind: "persona", ID: persona.ID}
	}
	return i.personas.Save(ctx, persona)
}

// Update overwrites an existing persona. It fails with *NotFoundError when the ID is unknown.
func (i *PersonaInteractor) Update(ctx context.Context, persona *models.Persona) error {
	if err := persona.Validate(); err != nil {
		return err
	}
	existing, err := i.personas.GetByID(ctx, persona.ID)
	if err != nil {
		return fmt.Errorf("failed to look up persona %s: %w", persona.ID, err)
	}
	if existing == nil {
		return &NotFoundError{Kind: "persona", ID: persona.ID}
	}
	return i.personas.Save(ctx, persona)
}

// Get returns nil when the persona does not exist.
func (i *PersonaInteractor) Get(ctx context.Context, id string) (*models.Persona, error) {
	return i.personas.GetByID(ctx, id)
}

func (i *PersonaInteractor) List(ctx context.Context) ([]*models.Persona, error) {
	return i.personas.GetAll(ctx)
}

// Delete reports whether the persona existed. A missing ID is not an error.
func (i *PersonaInteractor) Delete(ctx context.Context, id string) (bool, error) {
	return i.personas.Delete(ctx, id)
}
