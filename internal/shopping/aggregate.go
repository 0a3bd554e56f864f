// Package shopping derives the categorized shopping list from a resolved
// week plan.
package shopping

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"weekmenu/internal/weekplan"
)

// descriptors are the leading/trailing words stripped during normalization,
// so "verse rode ui" and "ui" merge into one item.
var descriptors = map[string]bool{
	"vers": true, "verse": true,
	"biologisch": true, "biologische": true,
	"groot": true, "grote": true,
	"klein": true, "kleine": true,
	"rood": true, "rode": true,
	"groen": true, "groene": true,
	"geel": true, "gele": true,
	"wit": true, "witte": true,
}

// Source is one occurrence of an ingredient in the window, with its raw
// amount and unit.
type Source struct {
	RecipeID   string   `json:"recipeId"`
	RecipeName string   `json:"recipeName"`
	Amount     *float64 `json:"amount,omitempty"`
	Unit       string   `json:"unit,omitempty"`
}

// Item is one merged shopping-list line.
type Item struct {
	DisplayName string   `json:"displayName"`
	Amount      *float64 `json:"amount,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Category    string   `json:"category"`
	Sources     []Source `json:"sources"`
}

// CategoryGroup holds the items of one non-empty category.
type CategoryGroup struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// RecipeRef names a recipe contributing to the window.
type RecipeRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Servings int    `json:"servings"`
}

// List is the aggregated output.
type List struct {
	Items       []Item          `json:"items"`
	Categories  []CategoryGroup `json:"categories"`
	Recipes     []RecipeRef     `json:"recipes"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Normalize lower-cases, trims and collapses whitespace, and strips the fixed
// descriptor words from both ends. Two ingredient lines merge iff their
// normalized names are byte-equal.
func Normalize(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	for len(fields) > 0 && descriptors[fields[0]] {
		fields = fields[1:]
	}
	for len(fields) > 0 && descriptors[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// Build aggregates the resolved week into a shopping list. Days before today
// are dropped, the remainder is sorted by date and sliced to 7; each recipe
// contributes its ingredient list at its own default serving count.
func Build(days []weekplan.Day, today string, now time.Time) *List {
	window := make([]weekplan.Day, 0, len(days))
	for _, d := range days {
		if d.Date >= today {
			window = append(window, d)
		}
	}
	sort.Slice(window, func(i, j int) bool { return window[i].Date < window[j].Date })
	if len(window) > 7 {
		window = window[:7]
	}

	list := &List{GeneratedAt: now}
	index := make(map[string]int) // normalized name -> position in list.Items

	for _, day := range window {
		rec := day.Recipe
		if rec == nil {
			continue
		}
		list.Recipes = append(list.Recipes, RecipeRef{
			ID:       rec.ID,
			Name:     rec.Name,
			Date:     day.Date,
			Servings: rec.Servings,
		})

		for _, ing := range rec.Ingredients {
			key := Normalize(ing.Name)
			if key == "" {
				continue
			}
			src := Source{
				RecipeID:   rec.ID,
				RecipeName: rec.Name,
				Amount:     ing.Amount,
				Unit:       ing.Unit,
			}
			pos, seen := index[key]
			if !seen {
				index[key] = len(list.Items)
				list.Items = append(list.Items, Item{
					DisplayName: ing.Name,
					Category:    Categorize(ing.Name),
					Sources:     []Source{src},
				})
				continue
			}
			list.Items[pos].Sources = append(list.Items[pos].Sources, src)
		}
	}

	for i := range list.Items {
		combine(&list.Items[i])
	}

	list.Categories = group(list.Items)
	return list
}

// combine computes the merged amount: amounts sum only when every occurrence
// has one and all units agree (case-insensitively, with empty units counting
// as a unit of their own). Heterogeneous units are not converted; the first
// occurrence's raw amount and unit win.
func combine(item *Item) {
	first := item.Sources[0]
	total := 0.0
	unit := normalizeUnit(first.Unit)
	for _, src := range item.Sources {
		if src.Amount == nil || normalizeUnit(src.Unit) != unit {
			item.Amount = first.Amount
			item.Unit = first.Unit
			return
		}
		total += *src.Amount
	}
	item.Amount = &total
	item.Unit = first.Unit
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// group buckets items per category, dropping empty categories and ordering
// items with Dutch collation.
func group(items []Item) []CategoryGroup {
	byName := make(map[string][]Item)
	for _, item := range items {
		byName[item.Category] = append(byName[item.Category], item)
	}

	coll := collate.New(language.Dutch)
	var groups []CategoryGroup
	for _, name := range CategoryNames() {
		bucket := byName[name]
		if len(bucket) == 0 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return coll.CompareString(bucket[i].DisplayName, bucket[j].DisplayName) < 0
		})
		groups = append(groups, CategoryGroup{Name: name, Items: bucket})
	}
	return groups
}
