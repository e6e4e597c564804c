package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

const personaColumns = `id, name, niche, target_audience, localization, tone, industry, experience_level,
	content_themes, engagement_style, personal_brand_keywords, posting_frequency, description`

// PersonaRepository stores personas in the personas table.
type PersonaRepository struct {
	db *sql.DB
}

func NewPersonaRepository(d *Database) *PersonaRepository {
	return &PersonaRepository{db: d.db}
}

func (r *PersonaRepository) Save(ctx context.Context, p *models.Persona) error {
	query := rebind(`
		INSERT INTO personas (` + personaColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			niche = EXCLUDED.niche,
			target_audience = EXCLUDED.target_audience,
			localization = EXCLUDED.localization,
			tone = EXCLUDED.tone,
			industry = EXCLUDED.industry,
			experience_level = EXCLUDED.experience_level,
			content_themes = EXCLUDED.content_themes,
			engagement_style = EXCLUDED.engagement_style,
			personal_brand_keywords = EXCLUDED.personal_brand_keywords,
			posting_frequency = EXCLUDED.posting_frequency,
			description = EXCLUDED.description,
			updated_at = CURRENT_TIMESTAMP
	`)
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Niche, p.TargetAudience, p.Localization, p.Tone, p.Industry, p.ExperienceLevel,
		arrayOrEmpty(p.ContentThemes), p.EngagementStyle, arrayOrEmpty(p.PersonalBrandKeywords),
		p.PostingFrequency, nullString(p.Description),
	)
	if err != nil {
		return fmt.Errorf("failed to save persona %s: %w", p.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPersona(row rowScanner) (*models.Persona, error) {
	var p models.Persona
	var description sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Niche, &p.TargetAudience, &p.Localization, &p.Tone, &p.Industry,
		&p.ExperienceLevel, pq.Array(&p.ContentThemes), &p.EngagementStyle, pq.Array(&p.PersonalBrandKeywords),
		&p.PostingFrequency, &description)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	return &p, nil
}

func (r *PersonaRepository) GetByID(ctx context.Context, id string) (*models.Persona, error) {
	row := r.db.QueryRowContext(ctx, rebind(`SELECT `+personaColumns+` FROM personas WHERE id = ?`), id)
	p, err := scanPersona(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persona %s: %w", id, err)
	}
	return p, nil
}

func (r *PersonaRepository) GetAll(ctx context.Context) ([]*models.Persona, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+personaColumns+` FROM personas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	personas := make([]*models.Persona, 0)
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		if err := p.Validate(); err != nil {
			log.Printf("[Storage] Warning: skipping invalid persona %s: %v", p.ID, err)
			continue
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (r *PersonaRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, rebind(`DELETE FROM personas WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete persona %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete persona %s: %w", id, err)
	}
	return n > 0, nil
}
