package standard

import (
	"fmt"
	"regexp"

	"github.com/nao1215/sectioncheck/internal/model"
)

// Matcher decides whether a block signature belongs to a category.
// Match returns the matched substring as evidence.
type Matcher interface {
	Match(signature string) (excerpt string, ok bool)
}

// RegexpMatcher matches signatures with a case-insensitive regular expression.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// NewRegexpMatcher compiles pattern case-insensitively.
func NewRegexpMatcher(pattern string) (*RegexpMatcher, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	return &RegexpMatcher{re: re}, nil
}

// Match implements Matcher.
func (m *RegexpMatcher) Match(signature string) (string, bool) {
	if signature == "" {
		return "", false
	}
	loc := m.re.FindStringIndex(signature)
	if loc == nil {
		return "", false
	}
	return signature[loc[0]:loc[1]], true
}

// Rule pairs a category with the matcher that recognizes it.
// Rules are evaluated in the order they appear in a Standard; the first
// match wins.
type Rule struct {
	// Category is assigned to blocks the matcher accepts.
	Category model.Category

	// Pattern is the source regular expression, kept for display and export.
	Pattern string

	// Matcher tests block signatures.
	Matcher Matcher
}

// NewRule builds a regular-expression rule for category.
func NewRule(category model.Category, pattern string) (Rule, error) {
	if category == "" {
		return Rule{}, fmt.Errorf("%w: empty category", ErrInvalidRule)
	}
	if pattern == "" {
		return Rule{}, fmt.Errorf("%w: empty pattern for %s", ErrInvalidRule, category)
	}
	m, err := NewRegexpMatcher(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %s: %v", ErrInvalidRule, category, err)
	}
	return Rule{Category: category, Pattern: pattern, Matcher: m}, nil
}

// MustRule is like NewRule but panics on error. It is intended for the
// built-in rule table.
func MustRule(category model.Category, pattern string) Rule {
	r, err := NewRule(category, pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Match reports whether the rule accepts signature. A rule without a
// matcher never matches.
func (r Rule) Match(signature string) (string, bool) {
	if r.Matcher == nil {
		return "", false
	}
	return r.Matcher.Match(signature)
}
