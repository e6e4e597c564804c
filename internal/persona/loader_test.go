package persona

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

const techCEO = `
id: tech-ceo
name: Alex Chen
niche: SaaS leadership
target_audience: startup founders
industry: Technology
content_themes: [leadership, scaling]
personal_brand_keywords: [servant leadership]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ceo.yaml", techCEO)

	personas, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(personas) != 1 {
		t.Fatalf("expected 1 persona, got %d", len(personas))
	}
	p := personas[0]
	if p.ID != "tech-ceo" || p.Name != "Alex Chen" {
		t.Errorf("unexpected persona: %+v", p)
	}
	if p.Localization != DefaultLocalization || p.Tone != DefaultTone ||
		p.ExperienceLevel != DefaultExperienceLevel || p.EngagementStyle != DefaultEngagementStyle ||
		p.PostingFrequency != DefaultPostingFrequency {
		t.Errorf("defaults not applied: %+v", p)
	}
	if len(p.ContentThemes) != 2 || p.PersonalBrandKeywords[0] != "servant leadership" {
		t.Errorf("list fields not decoded: %+v", p)
	}
}

func TestDecodeListAndMultiDocument(t *testing.T) {
	input := `
- id: a
  name: A
  niche: n
  target_audience: t
- id: b
  name: B
  niche: n
  target_audience: t
  localization: Português (Brasil)
---
id: c
name: C
niche: n
target_audience: t
`
	personas, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var ids []string
	for _, p := range personas {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "a,b,c" {
		t.Errorf("unexpected ids: %v", ids)
	}
	if personas[1].Localization != "Português (Brasil)" {
		t.Errorf("explicit localization overwritten: %q", personas[1].Localization)
	}
}

func TestDecodeRejectsInvalidPersona(t *testing.T) {
	_, err := Decode(strings.NewReader("id: x\nname: X\nniche: n\n"))
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "target_audience" {
		t.Errorf("expected target_audience, got %s", verr.Field)
	}
}

func TestDecodeRejectsScalarDocument(t *testing.T) {
	if _, err := Decode(strings.NewReader("just a string\n")); err == nil {
		t.Error("expected error for scalar document")
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "id: second\nname: S\nniche: n\ntarget_audience: t\n")
	writeFile(t, dir, "a.yaml", techCEO)
	writeFile(t, dir, "notes.txt", "ignored")

	personas, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(personas) != 2 || personas[0].ID != "tech-ceo" || personas[1].ID != "second" {
		t.Errorf("unexpected personas: %+v", personas)
	}
}

func TestLoadMissingPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestExportRoundTrip(t *testing.T) {
	original, err := models.NewPersona(models.Persona{
		ID:                    "ai-researcher",
		Name:                  "Dr. Priya Patel",
		Niche:                 "AI research",
		TargetAudience:        "ML engineers",
		Localization:          "English (UK)",
		ContentThemes:         []string{"LLMs"},
		PersonalBrandKeywords: []string{"responsible AI"},
	})
	if err != nil {
		t.Fatalf("NewPersona: %v", err)
	}

	var buf bytes.Buffer
	if err := Export(&buf, original); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(buf.String(), "target_audience: ML engineers") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back) != 1 || back[0].Name != original.Name || back[0].ContentThemes[0] != "LLMs" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
