package suggestion_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weekmenu/internal/apperr"
	"weekmenu/internal/clock"
	"weekmenu/internal/database"
	"weekmenu/internal/history"
	"weekmenu/internal/recipe"
	"weekmenu/internal/suggestion"
	"weekmenu/internal/weather"
)

type fakeProvider struct {
	snap weather.Snapshot
}

func (p *fakeProvider) Current(context.Context) (*weather.Snapshot, error) {
	s := p.snap
	return &s, nil
}

func (p *fakeProvider) WeekForecast(context.Context) ([]weather.ForecastDay, error) {
	return nil, nil
}

type fixture struct {
	engine      *suggestion.Engine
	recipes     *recipe.Repository
	historyRepo *history.Repository
	log         *suggestion.Repository
	clk         clock.Fixed
}

func newFixture(t *testing.T, snap weather.Snapshot) *fixture {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	recipes := recipe.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	log := suggestion.NewRepository(db.SQL)
	clk := clock.Fixed{T: time.Date(2026, 1, 15, 18, 0, 0, 0, time.Local)}
	rng := rand.New(rand.NewSource(1))

	engine := suggestion.NewEngine(recipes, historyRepo, log,
		&fakeProvider{snap: snap}, clk, rng, zap.NewNop())
	return &fixture{
		engine:      engine,
		recipes:     recipes,
		historyRepo: historyRepo,
		log:         log,
		clk:         clk,
	}
}

func addRecipe(t *testing.T, f *fixture, name string, seasons []recipe.Season, tags []recipe.WeatherTag) *recipe.Recipe {
	t.Helper()
	rec := &recipe.Recipe{
		Name:        name,
		Category:    recipe.CategoryDiner,
		Servings:    2,
		SeasonTags:  seasons,
		WeatherTags: tags,
	}
	require.NoError(t, f.recipes.Create(context.Background(), rec))
	return rec
}

func TestScore(t *testing.T) {
	winter := recipe.SeasonWinter
	coldRain := []recipe.WeatherTag{recipe.WeatherKoud, recipe.WeatherRegenachtig}

	tests := []struct {
		name string
		rec  recipe.Recipe
		days int
		want suggestion.ScoreBreakdown
	}{
		{
			name: "full match long ago",
			rec: recipe.Recipe{
				SeasonTags:  []recipe.Season{recipe.SeasonWinter},
				WeatherTags: coldRain,
			},
			days: 999,
			want: suggestion.ScoreBreakdown{SeasonScore: 30, WeatherScore: 30, RecencyScore: 40, Total: 100},
		},
		{
			name: "wrong season eaten yesterday",
			rec: recipe.Recipe{
				SeasonTags:  []recipe.Season{recipe.SeasonZomer},
				WeatherTags: []recipe.WeatherTag{recipe.WeatherWarm},
			},
			days: 1,
			want: suggestion.ScoreBreakdown{SeasonScore: 5, WeatherScore: 0, RecencyScore: 0, Total: 5},
		},
		{
			name: "untagged recipe gets neutral scores",
			rec:  recipe.Recipe{},
			days: 10,
			want: suggestion.ScoreBreakdown{SeasonScore: 15, WeatherScore: 10, RecencyScore: 30, Total: 55},
		},
		{
			name: "single weather overlap",
			rec: recipe.Recipe{
				WeatherTags: []recipe.WeatherTag{recipe.WeatherKoud, recipe.WeatherZonnig},
			},
			days: 5,
			want: suggestion.ScoreBreakdown{SeasonScore: 15, WeatherScore: 15, RecencyScore: 15, Total: 45},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggestion.Score(&tt.rec, winter, coldRain, tt.days)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecencyUsesCalendarDays(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5, Condition: "Rain"})
	rec := addRecipe(t, f, "Soep", nil, nil)
	ctx := context.Background()

	// Eaten late on the evening three calendar days back. Counting elapsed
	// hours would land on 2 days and score 0; counting dates gives 3 and 15.
	require.NoError(t, f.historyRepo.Insert(ctx, &history.Entry{
		RecipeID: rec.ID,
		EatenAt:  time.Date(2026, 1, 12, 23, 30, 0, 0, time.Local),
		Servings: 2,
	}))

	result, err := f.engine.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, result.Suggestion.Reason.RecencyScore)
}

func TestGetTodayIsIdempotent(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5, Condition: "Rain"})
	addRecipe(t, f, "Erwtensoep", []recipe.Season{recipe.SeasonWinter}, nil)
	ctx := context.Background()

	first, err := f.engine.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, suggestion.StatusPending, first.Suggestion.Status)
	assert.Equal(t, f.clk.Today(), first.Suggestion.SuggestedFor)

	second, err := f.engine.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Suggestion.ID, second.Suggestion.ID)
	assert.Equal(t, first.Recipe.ID, second.Recipe.ID)
}

func TestGetTodayEmptyCatalog(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5})

	_, err := f.engine.GetToday(context.Background())
	assert.ErrorIs(t, err, apperr.NoRecipesAvailable(""))
}

func TestAcceptLogsMeal(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5, Condition: "Rain"})
	addRecipe(t, f, "Stamppot", []recipe.Season{recipe.SeasonWinter}, nil)
	ctx := context.Background()

	result, err := f.engine.GetToday(ctx)
	require.NoError(t, err)

	accepted, err := f.engine.Accept(ctx, result.Suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, suggestion.StatusAccepted, accepted.Suggestion.Status)

	last, err := f.historyRepo.LastEatenAt(ctx, accepted.Recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, last)

	// GetToday keeps returning the accepted suggestion.
	again, err := f.engine.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, accepted.Suggestion.ID, again.Suggestion.ID)
}

func TestRejectExcludesAndRegenerates(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5, Condition: "Rain"})
	addRecipe(t, f, "Soep", []recipe.Season{recipe.SeasonWinter}, nil)
	addRecipe(t, f, "Curry", []recipe.Season{recipe.SeasonWinter}, nil)
	ctx := context.Background()

	first, err := f.engine.GetToday(ctx)
	require.NoError(t, err)

	next, err := f.engine.Reject(ctx, first.Suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, suggestion.StatusPending, next.Suggestion.Status)
	assert.NotEqual(t, first.Recipe.ID, next.Recipe.ID)

	rows, err := f.log.ListForDate(ctx, f.clk.Today())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, suggestion.StatusPending, rows[0].Status)
	assert.Equal(t, suggestion.StatusRejected, rows[1].Status)
}

func TestRejectAcceptedCompensatesHistory(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5, Condition: "Rain"})
	addRecipe(t, f, "Soep", nil, nil)
	addRecipe(t, f, "Curry", nil, nil)
	ctx := context.Background()

	result, err := f.engine.GetToday(ctx)
	require.NoError(t, err)
	accepted, err := f.engine.Accept(ctx, result.Suggestion.ID)
	require.NoError(t, err)

	_, err = f.engine.Reject(ctx, accepted.Suggestion.ID)
	require.NoError(t, err)

	last, err := f.historyRepo.LastEatenAt(ctx, accepted.Recipe.ID)
	require.NoError(t, err)
	assert.Nil(t, last, "rejecting an accepted suggestion removes its history entry")
}

func TestRejectWithExhaustedPoolReusesCatalog(t *testing.T) {
	f := newFixture(t, weather.Snapshot{Temp: 5, Condition: "Rain"})
	only := addRecipe(t, f, "Soep", nil, nil)
	ctx := context.Background()

	first, err := f.engine.GetToday(ctx)
	require.NoError(t, err)

	// The only recipe is excluded after rejection, so the pool degrades to
	// the full catalog rather than failing.
	next, err := f.engine.Reject(ctx, first.Suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, only.ID, next.Recipe.ID)
}
