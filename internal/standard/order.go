package standard

import (
	"fmt"

	"github.com/nao1215/sectioncheck/internal/model"
)

// Order is a total order over section categories. Rank lookups go through a
// map, never through string comparison.
type Order struct {
	categories []model.Category
	ranks      map[model.Category]int
}

// NewOrder builds an Order from categories listed first to last.
func NewOrder(categories ...model.Category) (*Order, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyOrder
	}
	o := &Order{
		categories: make([]model.Category, len(categories)),
		ranks:      make(map[model.Category]int, len(categories)),
	}
	for i, c := range categories {
		if _, dup := o.ranks[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, c)
		}
		o.categories[i] = c
		o.ranks[c] = i
	}
	return o, nil
}

// Rank returns the canonical position of c, or false if c is unranked.
func (o *Order) Rank(c model.Category) (int, bool) {
	if o == nil {
		return 0, false
	}
	rank, ok := o.ranks[c]
	return rank, ok
}

// Categories returns a copy of the ordered category list.
func (o *Order) Categories() []model.Category {
	if o == nil {
		return nil
	}
	out := make([]model.Category, len(o.categories))
	copy(out, o.categories)
	return out
}

// Len returns the number of ranked categories.
func (o *Order) Len() int {
	if o == nil {
		return 0
	}
	return len(o.categories)
}
