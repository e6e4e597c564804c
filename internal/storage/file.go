package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// naiveTimestamp is the offset-less ISO-8601 form written by older stores.
// Fractional seconds are accepted when parsing.
const naiveTimestamp = "2006-01-02T15:04:05"

// jsonDocument is a JSON object mapping id to record, rewritten in full on
// every change.
type jsonDocument[T any] struct {
	path string
}

// load returns the stored records. A missing or unreadable document is an
// empty store.
func (d jsonDocument[T]) load() map[string]T {
	records := make(map[string]T)
	data, err := os.ReadFile(d.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[Storage] Warning: failed to read %s, treating as empty: %v", d.path, err)
		}
		return records
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("[Storage] Warning: %s is malformed, treating as empty: %v", d.path, err)
		return make(map[string]T)
	}
	if records == nil {
		// A literal null document.
		return make(map[string]T)
	}
	return records
}

// store writes the document to a temp file next to the target and renames it
// into place.
func (d jsonDocument[T]) store(records map[string]T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", d.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}

type personaRecord struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Niche                 string   `json:"niche"`
	TargetAudience        string   `json:"target_audience"`
	Localization          string   `json:"localization"`
	Tone                  string   `json:"tone"`
	Industry              string   `json:"industry"`
	ExperienceLevel       string   `json:"experience_level"`
	ContentThemes         []string `json:"content_themes"`
	EngagementStyle       string   `json:"engagement_style"`
	PersonalBrandKeywords []string `json:"personal_brand_keywords"`
	PostingFrequency      string   `json:"posting_frequency"`
	Description           *string  `json:"description"`
}

func toPersonaRecord(p *models.Persona) personaRecord {
	return personaRecord{
		ID:                    p.ID,
		Name:                  p.Name,
		Niche:                 p.Niche,
		TargetAudience:        p.TargetAudience,
		Localization:          p.Localization,
		Tone:                  p.Tone,
		Industry:              p.Industry,
		ExperienceLevel:       p.ExperienceLevel,
		ContentThemes:         nonNil(p.ContentThemes),
		EngagementStyle:       p.EngagementStyle,
		PersonalBrandKeywords: nonNil(p.PersonalBrandKeywords),
		PostingFrequency:      p.PostingFrequency,
		Description:           nullable(p.Description),
	}
}

func (r personaRecord) toPersona() (*models.Persona, error) {
	return models.NewPersona(models.Persona{
		ID:                    r.ID,
		Name:                  r.Name,
		Niche:                 r.Niche,
		TargetAudience:        r.TargetAudience,
		Localization:          r.Localization,
		Tone:                  r.Tone,
		Industry:              r.Industry,
		ExperienceLevel:       r.ExperienceLevel,
		ContentThemes:         r.ContentThemes,
		EngagementStyle:       r.EngagementStyle,
		PersonalBrandKeywords: r.PersonalBrandKeywords,
		PostingFrequency:      r.PostingFrequency,
		Description:           deref(r.Description),
	})
}

// FilePersonaRepository stores personas in a single JSON document.
// There is no locking between processes: concurrent writers are last-writer-wins.
type FilePersonaRepository struct {
	doc jsonDocument[personaRecord]
}

func NewFilePersonaRepository(path string) *FilePersonaRepository {
	return &FilePersonaRepository{doc: jsonDocument[personaRecord]{path: path}}
}

func (r *FilePersonaRepository) Save(_ context.Context, persona *models.Persona) error {
	records := r.doc.load()
	records[persona.ID] = toPersonaRecord(persona)
	return r.doc.store(records)
}

func (r *FilePersonaRepository) GetByID(_ context.Context, id string) (*models.Persona, error) {
	rec, ok := r.doc.load()[id]
	if !ok {
		return nil, nil
	}
	p, err := rec.toPersona()
	if err != nil {
		log.Printf("[Storage] Warning: skipping invalid persona %s: %v", id, err)
		return nil, nil
	}
	return p, nil
}

func (r *FilePersonaRepository) GetAll(_ context.Context) ([]*models.Persona, error) {
	records := r.doc.load()
	personas := make([]*models.Persona, 0, len(records))
	for id, rec := range records {
		p, err := rec.toPersona()
		if err != nil {
			log.Printf("[Storage] Warning: skipping invalid persona %s: %v", id, err)
			continue
		}
		personas = append(personas, p)
	}
	sortPersonas(personas)
	return personas, nil
}

func (r *FilePersonaRepository) Delete(_ context.Context, id string) (bool, error) {
	records := r.doc.load()
	if _, ok := records[id]; !ok {
		return false, nil
	}
	delete(records, id)
	if err := r.doc.store(records); err != nil {
		return false, err
	}
	return true, nil
}

type postRecord struct {
	ID               string  `json:"id"`
	PersonaID        string  `json:"persona_id"`
	Content          string  `json:"content"`
	ImagePrompt      *string `json:"image_prompt"`
	ImageURL         *string `json:"image_url"`
	Hashtags         *string `json:"hashtags"`
	CreatedAt        *string `json:"created_at"`
	MarketAnalysis   *string `json:"market_analysis"`
	GenerationPrompt *string `json:"generation_prompt"`
}

func toPostRecord(p *models.LinkedInPost) postRecord {
	rec := postRecord{
		ID:               p.ID,
		PersonaID:        p.PersonaID,
		Content:          p.Content,
		ImagePrompt:      nullable(p.ImagePrompt),
		ImageURL:         nullable(p.ImageURL),
		Hashtags:         nullable(p.Hashtags),
		MarketAnalysis:   nullable(p.MarketAnalysis),
		GenerationPrompt: nullable(p.GenerationPrompt),
	}
	if !p.CreatedAt.IsZero() {
		ts := p.CreatedAt.Format(time.RFC3339Nano)
		rec.CreatedAt = &ts
	}
	return rec
}

func (r postRecord) toPost() (*models.LinkedInPost, error) {
	post := models.LinkedInPost{
		ID:               r.ID,
		PersonaID:        r.PersonaID,
		Content:          r.Content,
		ImagePrompt:      deref(r.ImagePrompt),
		ImageURL:         deref(r.ImageURL),
		Hashtags:         deref(r.Hashtags),
		MarketAnalysis:   deref(r.MarketAnalysis),
		GenerationPrompt: deref(r.GenerationPrompt),
	}
	if r.CreatedAt != nil {
		ts, err := parseTimestamp(*r.CreatedAt)
		if err != nil {
			return nil, err
		}
		post.CreatedAt = ts
	}
	return models.NewLinkedInPost(post)
}

// parseTimestamp accepts RFC 3339 and the naive ISO-8601 form, which is read
// as local time.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(naiveTimestamp, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q: %w", s, err)
	}
	return ts, nil
}

// FilePostRepository stores posts in a single JSON document.
type FilePostRepository struct {
	doc jsonDocument[postRecord]
}

func NewFilePostRepository(path string) *FilePostRepository {
	return &FilePostRepository{doc: jsonDocument[postRecord]{path: path}}
}

func (r *FilePostRepository) Save(_ context.Context, post *models.LinkedInPost) error {
	records := r.doc.load()
	records[post.ID] = toPostRecord(post)
	return r.doc.store(records)
}

func (r *FilePostRepository) GetByID(_ context.Context, id string) (*models.LinkedInPost, error) {
	rec, ok := r.doc.load()[id]
	if !ok {
		return nil, nil
	}
	p, err := rec.toPost()
	if err != nil {
		log.Printf("[Storage] Warning: skipping invalid post %s: %v", id, err)
		return nil, nil
	}
	return p, nil
}

func (r *FilePostRepository) GetByPersona(_ context.Context, personaID string) ([]*models.LinkedInPost, error) {
	return r.filter(func(rec postRecord) bool { return rec.PersonaID == personaID }), nil
}

func (r *FilePostRepository) GetAll(_ context.Context) ([]*models.LinkedInPost, error) {
	return r.filter(func(postRecord) bool { return true }), nil
}

func (r *FilePostRepository) filter(keep func(postRecord) bool) []*models.LinkedInPost {
	records := r.doc.load()
	posts := make([]*models.LinkedInPost, 0, len(records))
	for id, rec := range records {
		if !keep(rec) {
			continue
		}
		p, err := rec.toPost()
		if err != nil {
			log.Printf("[Storage] Warning: skipping invalid post %s: %v", id, err)
			continue
		}
		posts = append(posts, p)
	}
	sortPosts(posts)
	return posts
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
