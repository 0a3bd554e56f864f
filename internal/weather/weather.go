// Package weather provides the weather snapshots that drive suggestion
// scoring, plus the day-bounded cache in front of the external provider.
package weather

import (
	"context"
	"strings"

	"weekmenu/internal/recipe"
)

// Snapshot is a single current-weather reading.
type Snapshot struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feelsLike"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
}

// ForecastDay is one representative reading for a future day, preferring the
// midday forecast.
type ForecastDay struct {
	Date        string  `json:"date"` // YYYY-MM-DD, local calendar
	Temp        float64 `json:"temp"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// Provider fetches weather from an external service.
type Provider interface {
	Current(ctx context.Context) (*Snapshot, error)
	WeekForecast(ctx context.Context) ([]ForecastDay, error)
}

// Tags derives the recipe weather tags that apply to a snapshot. The tags are
// not exclusive; a snapshot can carry zero, one, or two.
func (s *Snapshot) Tags() []recipe.WeatherTag {
	var tags []recipe.WeatherTag
	if s.Temp < 10 {
		tags = append(tags, recipe.WeatherKoud)
	}
	if s.Temp > 20 {
		tags = append(tags, recipe.WeatherWarm)
	}
	cond := strings.ToLower(s.Condition)
	switch {
	case strings.Contains(cond, "rain"),
		strings.Contains(cond, "drizzle"),
		strings.Contains(cond, "thunder"):
		tags = append(tags, recipe.WeatherRegenachtig)
	case strings.Contains(cond, "clear"),
		strings.Contains(cond, "sun"),
		strings.Contains(cond, "cloud"):
		tags = append(tags, recipe.WeatherZonnig)
	}
	return tags
}
