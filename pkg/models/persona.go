package models

// Persona describes a content voice used to target post generation.
// Localization is a language and region tag such as "English (US)" or "Português (Brasil)".
type Persona struct {
	ID                    string   `json:"id" yaml:"id"`
	Name                  string   `json:"name" yaml:"name"`
	Niche                 string   `json:"niche" yaml:"niche"`
	TargetAudience        string   `json:"target_audience" yaml:"target_audience"`
	Localization          string   `json:"localization" yaml:"localization"`
	Tone                  string   `json:"tone" yaml:"tone"`                         // professional, casual, inspirational, ...
	Industry              string   `json:"industry" yaml:"industry"`
	ExperienceLevel       string   `json:"experience_level" yaml:"experience_level"` // entry, mid, senior, executive
	ContentThemes         []string `json:"content_themes" yaml:"content_themes"`
	EngagementStyle       string   `json:"engagement_style" yaml:"engagement_style"` // storytelling, data-driven, ...
	PersonalBrandKeywords []string `json:"personal_brand_keywords" yaml:"personal_brand_keywords"`
	PostingFrequency      string   `json:"posting_frequency" yaml:"posting_frequency"`
	Description           string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewPersona validates p and returns an independent copy of it.
func NewPersona(p Persona) (*Persona, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Validate checks the fields every persona must carry.
func (p *Persona) Validate() error {
	checks := []struct{ field, value, message string }{
		{"id", p.ID, "persona ID cannot be empty"},
		{"name", p.Name, "persona name cannot be empty"},
		{"niche", p.Niche, "persona niche cannot be empty"},
		{"target_audience", p.TargetAudience, "target audience cannot be empty"},
		{"localization", p.Localization, "localization cannot be empty"},
	}
	for _, c := range checks {
		if err := requireField("persona", c.field, c.value, c.message); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy so callers never share the list fields. Nil lists
// come back empty, matching what every repository returns.
func (p *Persona) Clone() *Persona {
	if p == nil {
		return nil
	}
	c := *p
	c.ContentThemes = cloneStrings(p.ContentThemes)
	c.PersonalBrandKeywords = cloneStrings(p.PersonalBrandKeywords)
	return &c
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
