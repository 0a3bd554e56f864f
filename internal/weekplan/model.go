// Package weekplan maintains the rolling 7-day plan and resolves it against
// the suggestion log and the weather forecast.
package weekplan

import (
	"time"

	"weekmenu/internal/recipe"
	"weekmenu/internal/suggestion"
)

// Entry is the persisted pick for a single non-today date. One row per date.
type Entry struct {
	Date        string    `json:"date"` // YYYY-MM-DD, local calendar
	RecipeID    *string   `json:"recipeId"`
	Cleared     bool      `json:"cleared"`
	Temp        float64   `json:"temp"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Day is one resolved day of the week view. Recipe is nil for cleared days.
// Status is only set on today's entry, where the suggestion log governs.
type Day struct {
	Date        string            `json:"date"`
	IsToday     bool              `json:"isToday"`
	Recipe      *recipe.Recipe    `json:"recipe"`
	Status      suggestion.Status `json:"status,omitempty"`
	Temp        float64           `json:"temp"`
	Icon        string            `json:"icon"`
	Description string            `json:"description"`
}
