package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a section tag such as "hero" or "faq".
// The set of known categories is closed; the canonical order between them is
// owned by the active standard, not by this type.
type Category string

// Known section categories, listed in the default canonical order.
const (
	CategoryHero           Category = "hero"
	CategoryLogbook        Category = "logbook"
	CategoryFeaturedImages Category = "featured_images"
	CategoryCruisePort     Category = "cruise_port"
	CategoryGettingAround  Category = "getting_around"
	CategoryMap            Category = "map"
	CategoryBeaches        Category = "beaches"
	CategoryExcursions     Category = "excursions"
	CategoryHistory        Category = "history"
	CategoryCultural       Category = "cultural"
	CategoryShopping       Category = "shopping"
	CategoryFood           Category = "food"
	CategoryNotices        Category = "notices"
	CategoryDepthSoundings Category = "depth_soundings"
	CategoryPractical      Category = "practical"
	CategoryFAQ            Category = "faq"
	CategoryGallery        Category = "gallery"
	CategoryCredits        Category = "credits"
	CategoryBackNav        Category = "back_nav"
)

// AllCategories returns every known category in default canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryHero,
		CategoryLogbook,
		CategoryFeaturedImages,
		CategoryCruisePort,
		CategoryGettingAround,
		CategoryMap,
		CategoryBeaches,
		CategoryExcursions,
		CategoryHistory,
		CategoryCultural,
		CategoryShopping,
		CategoryFood,
		CategoryNotices,
		CategoryDepthSoundings,
		CategoryPractical,
		CategoryFAQ,
		CategoryGallery,
		CategoryCredits,
		CategoryBackNav,
	}
}

// categoryTitles holds display names that title-casing gets wrong.
var categoryTitles = map[Category]string{
	CategoryFAQ:            "FAQ",
	CategoryBackNav:        "Back Navigation",
	CategoryCruisePort:     "Cruise Port",
	CategoryDepthSoundings: "Depth Soundings",
}

// IsKnown reports whether c belongs to the closed category set.
func (c Category) IsKnown() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns a human-readable name for the category.
func (c Category) Title() string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
