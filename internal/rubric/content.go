package rubric

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// firstPersonPronouns are the words counted toward narrative voice.
var firstPersonPronouns = map[string]bool{
	"i": true, "me": true, "my": true, "mine": true, "myself": true,
	"we": true, "us": true, "our": true, "ours": true, "ourselves": true,
}

// Checker applies a standard's rubric to detected sections.
type Checker struct {
	rubric  standard.Rubric
	credits *CreditReader
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithCreditReader replaces the gallery credit reader.
func WithCreditReader(r *CreditReader) Option {
	return func(c *Checker) {
		c.credits = r
	}
}

// NewChecker creates a Checker for rb.
func NewChecker(rb standard.Rubric, opts ...Option) *Checker {
	c := &Checker{
		rubric:  rb,
		credits: NewCreditReader(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the content findings for the detected sections of r.
// It returns early with ctx's error if ctx is cancelled while reading
// gallery images.
func (c *Checker) Check(ctx context.Context, r *model.Report) ([]model.Finding, error) {
	findings := make([]model.Finding, 0)
	if r.Record == nil {
		return findings, nil
	}

	for _, d := range r.Record.Detections {
		findings = append(findings, c.checkWordCount(d)...)
		findings = append(findings, c.checkVoice(d)...)
		findings = append(findings, c.checkPhrases(d)...)
	}

	if c.rubric.GalleryCredits {
		if d, ok := r.Record.Get(model.CategoryGallery); ok {
			credits, err := c.checkCredits(ctx, r.Path, d)
			findings = append(findings, credits...)
			if err != nil {
				return findings, err
			}
		}
	}

	return findings, nil
}

func (c *Checker) checkWordCount(d model.Detection) []model.Finding {
	wr, ok := c.rubric.WordCounts[d.Category]
	if !ok {
		return nil
	}
	n := d.Block.WordCount

	switch {
	case wr.Min > 0 && n < wr.Min:
		f := model.NewFinding(model.FindingWordCountLow,
			fmt.Sprintf("%s is too short", d.Category.Title()),
			fmt.Sprintf("The section has %d words; the standard asks for at least %d.", n, wr.Min),
		)
		f.Category = d.Category
		f.Value = strconv.Itoa(n)
		f.Location = blockLocation(d.Block)
		return []model.Finding{f}
	case wr.Max > 0 && n > wr.Max:
		f := model.NewFinding(model.FindingWordCountHigh,
			fmt.Sprintf("%s is too long", d.Category.Title()),
			fmt.Sprintf("The section has %d words; the standard allows at most %d.", n, wr.Max),
		)
		f.Category = d.Category
		f.Value = strconv.Itoa(n)
		f.Location = blockLocation(d.Block)
		return []model.Finding{f}
	}
	return nil
}

func (c *Checker) checkVoice(d model.Detection) []model.Finding {
	if !containsCategory(c.rubric.FirstPerson, d.Category) {
		return nil
	}

	ratio, words := FirstPersonRatio(d.Block.Body)
	if words == 0 || ratio >= c.rubric.FirstPersonMinRatio {
		return nil
	}

	f := model.NewFinding(model.FindingNarrativeVoice,
		fmt.Sprintf("%s is not written in the first person", d.Category.Title()),
		fmt.Sprintf("First-person pronouns make up %.1f%% of %d words; at least %.1f%% is expected.",
			ratio*100, words, c.rubric.FirstPersonMinRatio*100),
	)
	f.Category = d.Category
	f.Value = strconv.FormatFloat(ratio, 'f', 3, 64)
	f.Location = blockLocation(d.Block)
	return []model.Finding{f}
}

func (c *Checker) checkPhrases(d model.Detection) []model.Finding {
	if len(c.rubric.BannedPhrases) == 0 {
		return nil
	}

	lower := cases.Lower(language.Und)
	text := lower.String(d.Block.Text + " " + d.Block.Body)

	var findings []model.Finding
	for _, phrase := range c.rubric.BannedPhrases {
		p := strings.TrimSpace(lower.String(phrase))
		if p == "" || !strings.Contains(text, p) {
			continue
		}
		f := model.NewFinding(model.FindingBannedPhrase,
			fmt.Sprintf("Banned phrase in %s", d.Category.Title()),
			fmt.Sprintf("The section uses %q.", phrase),
		)
		f.Category = d.Category
		f.Value = phrase
		f.Location = blockLocation(d.Block)
		findings = append(findings, f)
	}
	return findings
}

func (c *Checker) checkCredits(ctx context.Context, docPath string, d model.Detection) ([]model.Finding, error) {
	var findings []model.Finding

	for _, src := range d.Block.Images {
		if err := ctx.Err(); err != nil {
			return findings, err
		}

		path, ok := LocalImagePath(docPath, src)
		if !ok {
			c.logger.Debug("skipping remote gallery image", "src", src)
			continue
		}

		credit, err := c.credits.Read(path)
		if err != nil {
			c.logger.Debug("cannot read gallery image", "path", path, "error", err)
			continue
		}
		if credit != "" {
			continue
		}

		f := model.NewFinding(model.FindingGalleryCreditMissing,
			"Gallery image without credit",
			fmt.Sprintf("%s has no EXIF Artist or Copyright tag.", src),
		)
		f.Category = d.Category
		f.Value = src
		f.Location = blockLocation(d.Block)
		findings = append(findings, f)
	}
	return findings, nil
}

// FirstPersonRatio returns the share of first-person pronouns among the
// words of text, and the word count. Contractions such as "I'm" count as
// their pronoun.
func FirstPersonRatio(text string) (float64, int) {
	words := strings.FieldsFunc(cases.Lower(language.Und).String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '’'
	})
	if len(words) == 0 {
		return 0, 0
	}

	count := 0
	for _, w := range words {
		if i := strings.IndexAny(w, "'’"); i >= 0 {
			w = w[:i]
		}
		if firstPersonPronouns[w] {
			count++
		}
	}
	return float64(count) / float64(len(words)), len(words)
}

func containsCategory(list []model.Category, c model.Category) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}
