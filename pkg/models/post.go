package models

import "time"

// now is swapped in tests that need a fixed clock.
var now = time.Now

// LinkedInPost is a generated post together with the intermediate outputs of the pipeline.
// Empty optional fields mean the value is absent.
type LinkedInPost struct {
	ID               string    `json:"id"`
	PersonaID        string    `json:"persona_id"`
	Content          string    `json:"content"`
	ImagePrompt      string    `json:"image_prompt,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	Hashtags         string    `json:"hashtags,omitempty"`
	MarketAnalysis   string    `json:"market_analysis,omitempty"`   // stage 1 analysis
	GenerationPrompt string    `json:"generation_prompt,omitempty"` // stage 1 crafted prompt
	CreatedAt        time.Time `json:"created_at"`
}

// NewLinkedInPost validates p, defaults CreatedAt to the current time and returns a copy.
func NewLinkedInPost(p LinkedInPost) (*LinkedInPost, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	return &p, nil
}

// Validate checks the fields every post must carry.
func (p *LinkedInPost) Validate() error {
	if err := requireField("post", "id", p.ID, "post ID cannot be empty"); err != nil {
		return err
	}
	if err := requireField("post", "persona_id", p.PersonaID, "persona ID cannot be empty"); err != nil {
		return err
	}
	return requireField("post", "content", p.Content, "post content cannot be empty")
}

// Clone returns a copy of the post.
func (p *LinkedInPost) Clone() *LinkedInPost {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// PostGenerationRequest is the transient input of the generation pipeline.
type PostGenerationRequest struct {
	PersonaID         string `json:"persona_id"`
	TopicHint         string `json:"topic_hint,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// NewPostGenerationRequest builds a validated request. topicHint and additionalContext may be empty.
func NewPostGenerationRequest(personaID, topicHint, additionalContext string) (*PostGenerationRequest, error) {
	r := &PostGenerationRequest{
		PersonaID:         personaID,
		TopicHint:         topicHint,
		AdditionalContext: additionalContext,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that the request names a persona.
func (r *PostGenerationRequest) Validate() error {
	return requireField("request", "persona_id", r.PersonaID, "persona ID is required for post generation")
}
