package standard

import (
	"fmt"
	"slices"

	"github.com/nao1215/sectioncheck/internal/model"
)

// WordRange bounds a section's word count. Zero means unbounded.
type WordRange struct {
	Min int `yaml:"min,omitempty" toml:"min,omitempty" json:"min,omitempty"`
	Max int `yaml:"max,omitempty" toml:"max,omitempty" json:"max,omitempty"`
}

// Rubric configures the checks that go beyond section order.
type Rubric struct {
	// WordCounts bounds the body length of individual sections.
	WordCounts map[model.Category]WordRange

	// FirstPerson lists sections that must be written in the first person.
	FirstPerson []model.Category

	// FirstPersonMinRatio is the minimum share of first-person pronouns
	// among a first-person section's words.
	FirstPersonMinRatio float64

	// BannedPhrases are phrases that must not appear in any section body.
	BannedPhrases []string

	// GalleryCredits requires local gallery images to carry EXIF credit.
	GalleryCredits bool

	// Optional lists categories whose absence is informational only.
	Optional []model.Category
}

// IsOptional reports whether c is an optional section.
func (r Rubric) IsOptional(c model.Category) bool {
	for _, o := range r.Optional {
		if o == c {
			return true
		}
	}
	return false
}

// Standard is an immutable content standard.
type Standard struct {
	// Name identifies the standard, e.g. "port-page".
	Name string

	// Version identifies the revision, e.g. "2025.2".
	Version string

	// Order is the canonical section order.
	Order *Order

	// Rules is the classification rule table in priority order.
	Rules []Rule

	// Rubric configures word counts, voice and credit checks.
	Rubric Rubric
}

// ID returns "name@version".
func (s *Standard) ID() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}

// Validate checks the standard for structural problems.
//
// Rules whose category is absent from the canonical order are allowed: the
// order validator reports such categories as unrecognized instead of failing.
func (s *Standard) Validate() error {
	if s.Order == nil || s.Order.Len() == 0 {
		return ErrEmptyOrder
	}
	for _, c := range s.Order.Categories() {
		if !c.IsKnown() {
			return fmt.Errorf("%w in canonical order: %s", ErrUnknownCategory, c)
		}
	}
	if len(s.Rules) == 0 {
		return ErrNoRules
	}
	for i, r := range s.Rules {
		if r.Category == "" || r.Matcher == nil {
			return fmt.Errorf("%w: rule %d", ErrInvalidRule, i)
		}
	}
	return nil
}

// WithOptional returns a copy of s whose rubric also treats categories as
// optional. The receiver is not modified.
func (s *Standard) WithOptional(categories ...model.Category) *Standard {
	if len(categories) == 0 {
		return s
	}
	cp := *s
	optional := make([]model.Category, 0, len(s.Rubric.Optional)+len(categories))
	optional = append(optional, s.Rubric.Optional...)
	for _, c := range categories {
		if !slices.Contains(optional, c) {
			optional = append(optional, c)
		}
	}
	cp.Rubric.Optional = optional
	return &cp
}
