// Package suggestion picks one recipe per day and manages its
// accept/reject/clear lifecycle.
package suggestion

import (
	"time"

	"weekmenu/internal/weather"
)

// Status is the lifecycle state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusCleared  Status = "cleared"
)

// ScoreBreakdown explains why a recipe was suggested. The field names and
// ranges (0-30/0-30/0-40) are part of the suggestion's public shape.
type ScoreBreakdown struct {
	SeasonScore  int  `json:"seasonScore"`
	WeatherScore int  `json:"weatherScore"`
	RecencyScore int  `json:"recencyScore"`
	Total        int  `json:"total"`
	Manual       bool `json:"manual,omitempty"`
}

// Suggestion is one row of the append-only per-day suggestion log. Rows are
// never updated in place except for status; the most recently created row for
// a date is authoritative.
type Suggestion struct {
	ID           int64            `json:"id"`
	RecipeID     string           `json:"recipeId"`
	SuggestedFor string           `json:"suggestedFor"` // YYYY-MM-DD, local calendar
	Status       Status           `json:"status"`
	Reason       ScoreBreakdown   `json:"reason"`
	Weather      weather.Snapshot `json:"weatherData"`
	CreatedAt    time.Time        `json:"createdAt"`
}
