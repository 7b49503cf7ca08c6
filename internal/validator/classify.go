package validator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// Signature returns the lowercase text that rules are matched against:
// the block's text, id and class joined by single spaces.
func Signature(b model.Block) string {
	return cases.Lower(language.Und).String(b.Text + " " + b.ID + " " + b.Class)
}

// Classify assigns categories to blocks using rules in declared order.
//
// The first matching rule decides a block's category. Blocks that match no
// rule are ignored. Only the first block of each category enters the
// record's detections; later ones are kept in Duplicates. An empty block
// list yields an empty record.
func Classify(blocks []model.Block, rules []standard.Rule) *model.Record {
	record := &model.Record{
		Detections: make([]model.Detection, 0),
	}
	seen := make(map[model.Category]bool)

	for _, b := range blocks {
		sig := Signature(b)
		if strings.TrimSpace(sig) == "" {
			continue
		}

		category, excerpt, ok := match(sig, rules)
		if !ok {
			continue
		}

		d := model.Detection{Category: category, Block: b, Match: excerpt}
		if seen[category] {
			record.Duplicates = append(record.Duplicates, d)
			continue
		}
		seen[category] = true
		record.Detections = append(record.Detections, d)
	}

	return record
}

func match(sig string, rules []standard.Rule) (model.Category, string, bool) {
	for _, r := range rules {
		if excerpt, ok := r.Match(sig); ok {
			return r.Category, excerpt, true
		}
	}
	return "", "", false
}
