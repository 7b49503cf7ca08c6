package standard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/sectioncheck/internal/model"
)

// Format is a standard file encoding.
type Format string

// Supported standard file formats.
const (
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatJSONC Format = "jsonc"
)

// fileStandard is the on-disk shape of a standard. Order and Rules fall back
// to the built-in standard when omitted; so does Rubric when the key is absent.
type fileStandard struct {
	Name    string      `yaml:"name" toml:"name" json:"name"`
	Version string      `yaml:"version,omitempty" toml:"version" json:"version,omitempty"`
	Order   []string    `yaml:"order,omitempty" toml:"order" json:"order,omitempty"`
	Rules   []fileRule  `yaml:"rules,omitempty" toml:"rules" json:"rules,omitempty"`
	Rubric  *fileRubric `yaml:"rubric,omitempty" toml:"rubric" json:"rubric,omitempty"`
}

type fileRule struct {
	Category string `yaml:"category" toml:"category" json:"category"`
	Pattern  string `yaml:"pattern" toml:"pattern" json:"pattern"`
}

type fileRubric struct {
	WordCounts          map[string]WordRange `yaml:"word_counts,omitempty" toml:"word_counts" json:"word_counts,omitempty"`
	FirstPerson         []string             `yaml:"first_person,omitempty" toml:"first_person" json:"first_person,omitempty"`
	FirstPersonMinRatio float64              `yaml:"first_person_min_ratio,omitempty" toml:"first_person_min_ratio" json:"first_person_min_ratio,omitempty"`
	BannedPhrases       []string             `yaml:"banned_phrases,omitempty" toml:"banned_phrases" json:"banned_phrases,omitempty"`
	GalleryCredits      bool                 `yaml:"gallery_credits" toml:"gallery_credits" json:"gallery_credits"`
	Optional            []string             `yaml:"optional,omitempty" toml:"optional" json:"optional,omitempty"`
}

// FormatFromPath infers the file format from path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads, parses and validates the standard file at path.
func Load(path string) (*Standard, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided standard path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read standard: %w", err)
	}

	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse standard %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a standard in the given format and validates it.
func Parse(data []byte, format Format) (*Standard, error) {
	var fs fileStandard

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fs); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &fs); err != nil {
			return nil, err
		}
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &fs); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	s, err := fs.build()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// build converts the file representation, filling omitted parts from Default.
func (fs *fileStandard) build() (*Standard, error) {
	base := Default()

	s := &Standard{
		Name:    fs.Name,
		Version: fs.Version,
		Order:   base.Order,
		Rules:   base.Rules,
		Rubric:  base.Rubric,
	}
	if s.Name == "" {
		s.Name = "custom"
	}

	if len(fs.Order) > 0 {
		order, err := NewOrder(toCategories(fs.Order)...)
		if err != nil {
			return nil, err
		}
		s.Order = order
	}

	if len(fs.Rules) > 0 {
		rules := make([]Rule, 0, len(fs.Rules))
		for _, fr := range fs.Rules {
			r, err := NewRule(model.Category(strings.TrimSpace(fr.Category)), fr.Pattern)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
		s.Rules = rules
	}

	if fs.Rubric != nil {
		s.Rubric = fs.Rubric.build()
	}

	return s, nil
}

func (fr *fileRubric) build() Rubric {
	r := Rubric{
		WordCounts:          make(map[model.Category]WordRange, len(fr.WordCounts)),
		FirstPerson:         toCategories(fr.FirstPerson),
		FirstPersonMinRatio: fr.FirstPersonMinRatio,
		BannedPhrases:       fr.BannedPhrases,
		GalleryCredits:      fr.GalleryCredits,
		Optional:            toCategories(fr.Optional),
	}
	for k, v := range fr.WordCounts {
		r.WordCounts[model.Category(k)] = v
	}
	return r
}

// Marshal encodes s as YAML in the same shape Load accepts.
func Marshal(s *Standard) ([]byte, error) {
	fs := fileStandard{
		Name:    s.Name,
		Version: s.Version,
		Order:   fromCategories(s.Order.Categories()),
		Rules:   make([]fileRule, len(s.Rules)),
		Rubric: &fileRubric{
			WordCounts:          make(map[string]WordRange, len(s.Rubric.WordCounts)),
			FirstPerson:         fromCategories(s.Rubric.FirstPerson),
			FirstPersonMinRatio: s.Rubric.FirstPersonMinRatio,
			BannedPhrases:       s.Rubric.BannedPhrases,
			GalleryCredits:      s.Rubric.GalleryCredits,
			Optional:            fromCategories(s.Rubric.Optional),
		},
	}
	for i, r := range s.Rules {
		fs.Rules[i] = fileRule{Category: string(r.Category), Pattern: r.Pattern}
	}
	for k, v := range s.Rubric.WordCounts {
		fs.Rubric.WordCounts[string(k)] = v
	}
	return yaml.Marshal(&fs)
}

func toCategories(names []string) []model.Category {
	out := make([]model.Category, 0, len(names))
	for _, n := range names {
		out = append(out, model.Category(strings.TrimSpace(n)))
	}
	return out
}

func fromCategories(categories []model.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
