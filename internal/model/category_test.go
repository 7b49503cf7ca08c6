package model

import "testing"

func TestAllCategories(t *testing.T) {
	t.Parallel()

	categories := AllCategories()
	if len(categories) != 19 {
		t.Fatalf("expected 19 categories, got %d", len(categories))
	}
	if categories[0] != CategoryHero {
		t.Errorf("expected hero first, got %q", categories[0])
	}
	if categories[len(categories)-1] != CategoryBackNav {
		t.Errorf("expected back_nav last, got %q", categories[len(categories)-1])
	}

	seen := make(map[Category]bool)
	for _, c := range categories {
		if seen[c] {
			t.Errorf("duplicate category %q", c)
		}
		seen[c] = true
	}
}

func TestCategory_IsKnown(t *testing.T) {
	t.Parallel()

	if !CategoryFAQ.IsKnown() {
		t.Error("expected faq to be known")
	}
	if Category("sidebar").IsKnown() {
		t.Error("expected sidebar to be unknown")
	}
}

func TestCategory_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category Category
		want     string
	}{
		{CategoryFAQ, "FAQ"},
		{CategoryGettingAround, "Getting Around"},
		{CategoryFeaturedImages, "Featured Images"},
		{CategoryBackNav, "Back Navigation"},
		{CategoryHero, "Hero"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.category), func(t *testing.T) {
			t.Parallel()
			if got := tt.category.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
