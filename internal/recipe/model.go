// Package recipe holds the recipe aggregate and its repository.
package recipe

import "time"

// Category is one of the fixed recipe categories.
type Category string

const (
	CategoryOntbijt    Category = "ontbijt"
	CategoryLunch      Category = "lunch"
	CategoryDiner      Category = "diner"
	CategoryBijgerecht Category = "bijgerecht"
	CategorySoep       Category = "soep"
	CategorySalade     Category = "salade"
	CategoryDessert    Category = "dessert"
	CategoryOverig     Category = "overig"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryOntbijt,
	CategoryLunch,
	CategoryDiner,
	CategoryBijgerecht,
	CategorySoep,
	CategorySalade,
	CategoryDessert,
	CategoryOverig,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Season tags a recipe to a part of the year.
type Season string

const (
	SeasonLente  Season = "lente"
	SeasonZomer  Season = "zomer"
	SeasonHerfst Season = "herfst"
	SeasonWinter Season = "winter"
)

// SeasonForMonth maps a calendar month to its season.
func SeasonForMonth(m time.Month) Season {
	switch {
	case m >= time.March && m <= time.May:
		return SeasonLente
	case m >= time.June && m <= time.August:
		return SeasonZomer
	case m >= time.September && m <= time.November:
		return SeasonHerfst
	default:
		return SeasonWinter
	}
}

// WeatherTag tags a recipe to the kind of weather it suits.
type WeatherTag string

const (
	WeatherKoud        WeatherTag = "koud"
	WeatherWarm        WeatherTag = "warm"
	WeatherRegenachtig WeatherTag = "regenachtig"
	WeatherZonnig      WeatherTag = "zonnig"
)

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string   `json:"name"`
	Amount   *float64 `json:"amount,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Scalable bool     `json:"scalable"`
}

// Recipe is the aggregate root. History, suggestions and week-plan entries
// reference it by id and are removed with it.
type Recipe struct {
	ID           string       `json:"id"`
	Slug         string       `json:"slug"`
	Name         string       `json:"name"`
	Category     Category     `json:"category"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Servings     int          `json:"servings"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	SourceURL    string       `json:"sourceUrl,omitempty"`
	SeasonTags   []Season     `json:"seasonTags"`
	WeatherTags  []WeatherTag `json:"weatherTags"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// HasSeason reports whether the recipe is tagged for the given season.
func (r *Recipe) HasSeason(s Season) bool {
	for _, tag := range r.SeasonTags {
		if tag == s {
			return true
		}
	}
	return false
}

// WeatherOverlap counts how many of the given tags the recipe carries.
func (r *Recipe) WeatherOverlap(tags []WeatherTag) int {
	n := 0
	for _, tag := range r.WeatherTags {
		for _, want := range tags {
			if tag == want {
				n++
				break
			}
		}
	}
	return n
}
