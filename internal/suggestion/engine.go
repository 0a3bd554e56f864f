package suggestion

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"weekmenu/internal/apperr"
	"weekmenu/internal/clock"
	"weekmenu/internal/history"
	"weekmenu/internal/recipe"
	"weekmenu/internal/weather"
)

// neverEatenDays is the recency used for recipes with no history at all.
const neverEatenDays = 999

// Result pairs a suggestion with its resolved recipe.
type Result struct {
	Suggestion *Suggestion    `json:"suggestion"`
	Recipe     *recipe.Recipe `json:"recipe"`
}

// Engine computes and persists the daily suggestion.
type Engine struct {
	recipes     *recipe.Repository
	historyRepo *history.Repository
	log         *Repository
	provider    weather.Provider
	clk         clock.Clock
	rng         *rand.Rand
	logger      *zap.Logger
}

// NewEngine creates an Engine. The rand source is injected so tests can pin
// the top-3 tie-break.
func NewEngine(
	recipes *recipe.Repository,
	historyRepo *history.Repository,
	suggestions *Repository,
	provider weather.Provider,
	clk clock.Clock,
	rng *rand.Rand,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		recipes:     recipes,
		historyRepo: historyRepo,
		log:         suggestions,
		provider:    provider,
		clk:         clk,
		rng:         rng,
		logger:      logger,
	}
}

// GetToday returns today's authoritative suggestion. While the latest row for
// today is pending or accepted the call is an idempotent read; otherwise a new
// pending suggestion is generated, persisted and returned. A cleared latest
// row does not suppress regeneration.
func (e *Engine) GetToday(ctx context.Context) (*Result, error) {
	today := e.clk.Today()
	rows, err := e.log.ListForDate(ctx, today)
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		latest := rows[0]
		if latest.Status == StatusPending || latest.Status == StatusAccepted {
			rec, err := e.recipes.GetByID(ctx, latest.RecipeID)
			if err != nil {
				return nil, err
			}
			return &Result{Suggestion: &latest, Recipe: rec}, nil
		}
	}

	exclude := recipeIDSet(rows)
	return e.generateAndPersist(ctx, today, exclude)
}

// Accept marks a suggestion accepted and logs the meal as eaten now.
func (e *Engine) Accept(ctx context.Context, id int64) (*Result, error) {
	s, err := e.log.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err := e.recipes.GetByID(ctx, s.RecipeID)
	if err != nil {
		return nil, err
	}

	if err := e.log.UpdateStatus(ctx, id, StatusAccepted); err != nil {
		return nil, err
	}
	s.Status = StatusAccepted

	entry := &history.Entry{
		RecipeID: s.RecipeID,
		EatenAt:  e.clk.Now(),
		Servings: rec.Servings,
	}
	if err := e.historyRepo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	e.logger.Info("suggestion accepted",
		zap.Int64("suggestion_id", id),
		zap.String("recipe", rec.Name))
	return &Result{Suggestion: s, Recipe: rec}, nil
}

// Reject marks a suggestion rejected and returns a fresh pending suggestion
// for today. Rejecting an accepted suggestion first deletes the history rows
// its accept created, matched by recipe inside today's calendar-day window.
// That is a compensating action, not a transaction: an unrelated entry for
// the same recipe logged earlier today would be swept up with it.
func (e *Engine) Reject(ctx context.Context, id int64) (*Result, error) {
	s, err := e.log.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Status == StatusAccepted {
		from, to := clock.DayWindow(e.clk.Now())
		if err := e.historyRepo.DeleteByRecipeAndRange(ctx, s.RecipeID, from, to); err != nil {
			return nil, err
		}
	}

	if err := e.log.UpdateStatus(ctx, id, StatusRejected); err != nil {
		return nil, err
	}

	today := e.clk.Today()
	rows, err := e.log.ListForDate(ctx, today)
	if err != nil {
		return nil, err
	}
	exclude := recipeIDSet(rows)

	e.logger.Info("suggestion rejected",
		zap.Int64("suggestion_id", id),
		zap.Int("excluded", len(exclude)))
	return e.generateAndPersist(ctx, today, exclude)
}

// Clear marks every row for today cleared.
func (e *Engine) Clear(ctx context.Context) error {
	return e.log.MarkAllForDate(ctx, e.clk.Today(), StatusCleared)
}

func (e *Engine) generateAndPersist(ctx context.Context, date string, exclude map[string]bool) (*Result, error) {
	rec, reason, snap, err := e.generate(ctx, exclude)
	if err != nil {
		return nil, err
	}

	s := &Suggestion{
		RecipeID:     rec.ID,
		SuggestedFor: date,
		Status:       StatusPending,
		Reason:       *reason,
		Weather:      *snap,
		CreatedAt:    e.clk.Now().UTC(),
	}
	if err := e.log.Insert(ctx, s); err != nil {
		return nil, err
	}

	e.logger.Info("suggestion generated",
		zap.String("date", date),
		zap.String("recipe", rec.Name),
		zap.Int("total", reason.Total))
	return &Result{Suggestion: s, Recipe: rec}, nil
}

// generate scores the candidate pool and picks uniformly among the top 3 so
// identical top scores do not produce the same pick day after day. Persists
// nothing; the caller does.
func (e *Engine) generate(ctx context.Context, exclude map[string]bool) (*recipe.Recipe, *ScoreBreakdown, *weather.Snapshot, error) {
	all, err := e.recipes.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	candidates := make([]recipe.Recipe, 0, len(all))
	for _, rec := range all {
		if !exclude[rec.ID] {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		if len(exclude) == 0 {
			return nil, nil, nil, apperr.NoRecipesAvailable("no recipes in the catalog")
		}
		// Everything was suggested today already; degrade to the full catalog.
		candidates = all
	}

	snap, err := e.provider.Current(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	weatherTags := snap.Tags()
	season := recipe.SeasonForMonth(e.clk.Now().Month())

	type scored struct {
		rec    recipe.Recipe
		reason ScoreBreakdown
	}
	results := make([]scored, 0, len(candidates))
	for _, rec := range candidates {
		days, err := e.daysSinceEaten(ctx, rec.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		results = append(results, scored{rec: rec, reason: Score(&rec, season, weatherTags, days)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].reason.Total > results[j].reason.Total
	})

	top := 3
	if len(results) < top {
		top = len(results)
	}
	pick := results[e.rng.Intn(top)]
	return &pick.rec, &pick.reason, snap, nil
}

func (e *Engine) daysSinceEaten(ctx context.Context, recipeID string) (int, error) {
	last, err := e.historyRepo.LastEatenAt(ctx, recipeID)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return neverEatenDays, nil
	}
	return daysBetween(last.Local(), e.clk.Now()), nil
}

// daysBetween counts whole calendar days from a to b. Both dates are
// re-anchored in UTC so the count ignores clock time and DST shifts.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// Score computes the fixed-constant breakdown for one candidate.
func Score(rec *recipe.Recipe, season recipe.Season, weatherTags []recipe.WeatherTag, daysSinceEaten int) ScoreBreakdown {
	var b ScoreBreakdown

	switch {
	case len(rec.SeasonTags) == 0:
		b.SeasonScore = 15 // untagged recipes stay in rotation year-round
	case rec.HasSeason(season):
		b.SeasonScore = 30
	default:
		b.SeasonScore = 5
	}

	if len(rec.WeatherTags) == 0 {
		b.WeatherScore = 10
	} else {
		b.WeatherScore = 15 * rec.WeatherOverlap(weatherTags)
		if b.WeatherScore > 30 {
			b.WeatherScore = 30
		}
	}

	switch {
	case daysSinceEaten < 3:
		b.RecencyScore = 0
	case daysSinceEaten < 7:
		b.RecencyScore = 15
	case daysSinceEaten < 14:
		b.RecencyScore = 30
	default:
		b.RecencyScore = 40
	}

	b.Total = b.SeasonScore + b.WeatherScore + b.RecencyScore
	return b
}

func recipeIDSet(rows []Suggestion) map[string]bool {
	ids := make(map[string]bool, len(rows))
	for _, s := range rows {
		ids[s.RecipeID] = true
	}
	return ids
}
