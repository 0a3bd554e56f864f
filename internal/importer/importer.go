// Package importer turns external recipe sources (web pages, Instagram
// captions) into the shape recipe creation consumes.
package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Ingredient is one parsed ingredient line.
type Ingredient struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount,omitempty"`
	Unit   string   `json:"unit,omitempty"`
}

// Recipe is the import shape produced by the scraper and the caption parser.
type Recipe struct {
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	Servings        int          `json:"servings"`
	Category        string       `json:"category,omitempty"`
	PrepTimeMinutes int          `json:"prepTimeMinutes,omitempty"`
	CookTimeMinutes int          `json:"cookTimeMinutes,omitempty"`
	ImageURL        string       `json:"imageUrl,omitempty"`
}

// units are the measurement words recognized when splitting an ingredient
// line into amount, unit and name.
var units = map[string]bool{
	"g": true, "gram": true, "kg": true, "ml": true, "l": true, "liter": true,
	"el": true, "tl": true, "eetlepel": true, "eetlepels": true,
	"theelepel": true, "theelepels": true, "kop": true, "kopje": true,
	"snufje": true, "teen": true, "tenen": true, "blik": true, "blikje": true,
	"pot": true, "zakje": true, "bosje": true, "plak": true, "plakken": true,
	"stuk": true, "stuks": true,
}

var leadingAmount = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*`)

// ParseIngredientLine splits a raw line like "2 el olijfolie" into its parts.
// Lines without a leading number come back as name-only.
func ParseIngredientLine(line string) Ingredient {
	line = strings.TrimSpace(line)
	ing := Ingredient{Name: line}

	m := leadingAmount.FindStringSubmatch(line)
	if m == nil {
		return ing
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return ing
	}

	rest := strings.TrimSpace(line[len(m[0]):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ing
	}

	ing.Amount = &amount
	if len(fields) > 1 && units[strings.ToLower(fields[0])] {
		ing.Unit = strings.ToLower(fields[0])
		ing.Name = strings.Join(fields[1:], " ")
	} else {
		ing.Name = rest
	}
	return ing
}

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// parseISODurationMinutes converts a schema.org duration like "PT1H30M" to
// minutes. Unparseable values yield 0.
func parseISODurationMinutes(s string) int {
	m := isoDuration.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	minutes := 0
	if m[1] != "" {
		if h, err := strconv.Atoi(m[1]); err == nil {
			minutes += h * 60
		}
	}
	if m[2] != "" {
		if mm, err := strconv.Atoi(m[2]); err == nil {
			minutes += mm
		}
	}
	return minutes
}

var leadingInt = regexp.MustCompile(`\d+`)

// parseServings pulls the first number out of a yield like "4 personen".
func parseServings(s string) int {
	m := leadingInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
