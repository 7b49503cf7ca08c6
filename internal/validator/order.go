package validator

import (
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// OrderResult is the outcome of checking a record against a canonical order.
type OrderResult struct {
	// Violations lists categories that followed a later-ranked category.
	Violations []model.OrderViolation `json:"violations"`

	// Missing lists canonical categories absent from the record, in
	// canonical order.
	Missing []model.Category `json:"missing"`

	// Unrecognized lists detected categories the order does not rank, in
	// observed order.
	Unrecognized []model.Category `json:"unrecognized,omitempty"`
}

// Valid reports whether the record had no violations and nothing missing.
func (r OrderResult) Valid() bool {
	return len(r.Violations) == 0 && len(r.Missing) == 0
}

// ValidateOrder compares each detected category with the ranked category
// immediately before it. A category is a violation when its rank is lower
// than its predecessor's. Unranked categories are listed as unrecognized and
// do not become anyone's predecessor: the next ranked category is compared
// with the last ranked one seen before them. For faq, <unranked>, hero the
// hero entry is reported after faq.
func ValidateOrder(record *model.Record, order *standard.Order) OrderResult {
	result := OrderResult{
		Violations: make([]model.OrderViolation, 0),
		Missing:    make([]model.Category, 0),
	}

	var (
		prev     model.Category
		prevRank = -1
	)
	detected := make(map[model.Category]bool)

	if record != nil {
		for i, d := range record.Detections {
			detected[d.Category] = true

			rank, ok := order.Rank(d.Category)
			if !ok {
				result.Unrecognized = append(result.Unrecognized, d.Category)
				continue
			}
			if prevRank >= 0 && rank < prevRank {
				result.Violations = append(result.Violations, model.OrderViolation{
					Category: d.Category,
					Previous: prev,
					Position: i,
				})
			}
			prev, prevRank = d.Category, rank
		}
	}

	for _, c := range order.Categories() {
		if !detected[c] {
			result.Missing = append(result.Missing, c)
		}
	}

	return result
}
