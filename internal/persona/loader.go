// Package persona reads and writes persona definitions as YAML.
//
// A definition file holds one persona mapping, a sequence of them, or several
// YAML documents separated by "---". Fields left out of a definition take the
// same defaults as `linkodin persona create`.
package persona

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// Defaults for optional persona attributes.
const (
	DefaultLocalization     = "English (US)"
	DefaultTone             = "professional"
	DefaultExperienceLevel  = "senior"
	DefaultEngagementStyle  = "storytelling"
	DefaultPostingFrequency = "weekly"
)

// ApplyDefaults fills empty optional attributes in place.
func ApplyDefaults(p *models.Persona) {
	setDefault(&p.Localization, DefaultLocalization)
	setDefault(&p.Tone, DefaultTone)
	setDefault(&p.ExperienceLevel, DefaultExperienceLevel)
	setDefault(&p.EngagementStyle, DefaultEngagementStyle)
	setDefault(&p.PostingFrequency, DefaultPostingFrequency)
}

func setDefault(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

// Load reads personas from a definition file or from every .yaml/.yml file
// in a directory, in file name order.
func Load(path string) ([]*models.Persona, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona directory %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var personas []*models.Persona
	for _, name := range names {
		loaded, err := LoadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		personas = append(personas, loaded...)
	}
	return personas, nil
}

// LoadFile reads every persona defined in one file.
func LoadFile(path string) ([]*models.Persona, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	personas, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return personas, nil
}

// Decode reads persona definitions from r and validates each one.
func Decode(r io.Reader) ([]*models.Persona, error) {
	dec := yaml.NewDecoder(r)
	var personas []*models.Persona
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		defs, err := decodeDocument(&node)
		if err != nil {
			return nil, err
		}
		for _, def := range defs {
			ApplyDefaults(&def)
			p, err := models.NewPersona(def)
			if err != nil {
				return nil, fmt.Errorf("persona %q: %w", def.ID, err)
			}
			personas = append(personas, p)
		}
	}
	return personas, nil
}

func decodeDocument(node *yaml.Node) ([]models.Persona, error) {
	doc := node
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, nil
		}
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.MappingNode:
		var p models.Persona
		if err := doc.Decode(&p); err != nil {
			return nil, fmt.Errorf("invalid persona definition: %w", err)
		}
		return []models.Persona{p}, nil
	case yaml.SequenceNode:
		var ps []models.Persona
		if err := doc.Decode(&ps); err != nil {
			return nil, fmt.Errorf("invalid persona list: %w", err)
		}
		return ps, nil
	case yaml.ScalarNode:
		if doc.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("line %d: expected a persona mapping or list", doc.Line)
}

// Export writes p as a single YAML persona definition.
func Export(w io.Writer, p *models.Persona) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode persona %s: %w", p.ID, err)
	}
	return enc.Close()
}
