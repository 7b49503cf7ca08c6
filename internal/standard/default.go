package standard

import (
	"github.com/nao1215/sectioncheck/internal/model"
)

// DefaultName and DefaultVersion identify the built-in port-page standard.
const (
	DefaultName    = "port-page"
	DefaultVersion = "2025.2"
)

// defaultRules is the built-in rule table. Declaration order is the match
// priority: a block mentioning both history and culture is history.
var defaultRules = []struct {
	category model.Category
	pattern  string
}{
	{model.CategoryHero, `\bhero\b|page-header|port-header`},
	{model.CategoryLogbook, `logbook|log book|captain'?s log|my visit|first-hand|firsthand`},
	{model.CategoryFeaturedImages, `featured[-_ ]?(images?|photos?)`},
	{model.CategoryCruisePort, `cruise port|cruise terminal|cruise-port|where (ships|we|you) docks?|docking|tender(ing)?\b`},
	{model.CategoryGettingAround, `getting around|getting-around|transportation|transport\b|getting to town|taxis?\b|shuttle`},
	{model.CategoryMap, `\bmaps?\b|port-map|interactive map`},
	{model.CategoryBeaches, `beach(es)?\b`},
	{model.CategoryExcursions, `excursions?|shore ex|things to do|tours?\b|top attractions`},
	{model.CategoryHistory, `\bhistory\b|historic(al)?\b|heritage`},
	{model.CategoryCultural, `cultur(e|al)|traditions?\b|local customs|festivals?`},
	{model.CategoryShopping, `shopping|souvenirs?|\bmarkets?\b|\bshops?\b`},
	{model.CategoryFood, `\bfood\b|dining|cuisine|restaurants?|where to eat|local dishes|drinks?\b`},
	{model.CategoryNotices, `\bnotices?\b|advisor(y|ies)|travel alerts?|port alerts?|warnings?\b`},
	{model.CategoryDepthSoundings, `depth[-_ ]?soundings?|soundings`},
	{model.CategoryPractical, `practical|good to know|essentials|currency|\bpracticalities\b`},
	{model.CategoryFAQ, `\bfaqs?\b|frequently asked|common questions`},
	{model.CategoryGallery, `gallery|carousel|swiper|slideshow`},
	{model.CategoryCredits, `credits?\b|attributions?|image sources|photo sources`},
	{model.CategoryBackNav, `back[-_ ]?(to|nav|link)|return to|all ports|more ports`},
}

// Default returns the built-in port-page standard. Each call returns a fresh
// value; the result is never shared mutable state.
func Default() *Standard {
	rules := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		rules[i] = MustRule(r.category, r.pattern)
	}

	order, err := NewOrder(model.AllCategories()...)
	if err != nil {
		panic(err)
	}

	return &Standard{
		Name:    DefaultName,
		Version: DefaultVersion,
		Order:   order,
		Rules:   rules,
		Rubric: Rubric{
			WordCounts: map[model.Category]WordRange{
				model.CategoryLogbook:       {Min: 300},
				model.CategoryCruisePort:    {Min: 80},
				model.CategoryGettingAround: {Min: 80},
				model.CategoryExcursions:    {Min: 120},
				model.CategoryFAQ:           {Min: 80},
				model.CategoryHero:          {Max: 150},
			},
			FirstPerson:         []model.Category{model.CategoryLogbook},
			FirstPersonMinRatio: 0.02,
			BannedPhrases: []string{
				"hidden gem",
				"something for everyone",
				"look no further",
				"vibrant tapestry",
				"nestled",
			},
			GalleryCredits: true,
			Optional: []model.Category{
				model.CategoryFeaturedImages,
				model.CategoryBeaches,
				model.CategoryShopping,
				model.CategoryNotices,
				model.CategoryDepthSoundings,
			},
		},
	}
}
