package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

const postColumns = `id, persona_id, content, image_prompt, image_url, hashtags, market_analysis,
	generation_prompt, created_at`

// PostRepository stores generated posts in the posts table.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(d *Database) *PostRepository {
	return &PostRepository{db: d.db}
}

func (r *PostRepository) Save(ctx context.Context, p *models.LinkedInPost) error {
	query := rebind(`
		INSERT INTO posts (` + postColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			persona_id = EXCLUDED.persona_id,
			content = EXCLUDED.content,
			image_prompt = EXCLUDED.image_prompt,
			image_url = EXCLUDED.image_url,
			hashtags = EXCLUDED.hashtags,
			market_analysis = EXCLUDED.market_analysis,
			generation_prompt = EXCLUDED.generation_prompt,
			created_at = EXCLUDED.created_at
	`)
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.PersonaID, p.Content, nullString(p.ImagePrompt), nullString(p.ImageURL), nullString(p.Hashtags),
		nullString(p.MarketAnalysis), nullString(p.GenerationPrompt), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save post %s: %w", p.ID, err)
	}
	return nil
}

func scanPost(row rowScanner) (*models.LinkedInPost, error) {
	var p models.LinkedInPost
	var imagePrompt, imageURL, hashtags, analysis, prompt sql.NullString
	if err := row.Scan(&p.ID, &p.PersonaID, &p.Content, &imagePrompt, &imageURL, &hashtags, &analysis, &prompt, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ImagePrompt = imagePrompt.String
	p.ImageURL = imageURL.String
	p.Hashtags = hashtags.String
	p.MarketAnalysis = analysis.String
	p.GenerationPrompt = prompt.String
	return &p, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.LinkedInPost, error) {
	row := r.db.QueryRowContext(ctx, rebind(`SELECT `+postColumns+` FROM posts WHERE id = ?`), id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return p, nil
}

func (r *PostRepository) GetByPersona(ctx context.Context, personaID string) ([]*models.LinkedInPost, error) {
	return r.query(ctx, rebind(`SELECT `+postColumns+` FROM posts WHERE persona_id = ? ORDER BY created_at, id`), personaID)
}

func (r *PostRepository) GetAll(ctx context.Context) ([]*models.LinkedInPost, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at, id`)
}

func (r *PostRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.LinkedInPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.LinkedInPost, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
