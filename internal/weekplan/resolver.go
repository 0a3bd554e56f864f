package weekplan

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"weekmenu/internal/apperr"
	"weekmenu/internal/clock"
	"weekmenu/internal/recipe"
	"weekmenu/internal/suggestion"
	"weekmenu/internal/weather"
)

// defaultIcon is the cached-weather icon for entries created without a
// forecast reading.
const defaultIcon = "01d"

// Resolver produces the 7-day view and applies manual overrides.
type Resolver struct {
	recipes     *recipe.Repository
	suggestions *suggestion.Repository
	plans       *Repository
	provider    weather.Provider
	clk         clock.Clock
	rng         *rand.Rand
	logger      *zap.Logger
}

// NewResolver creates a Resolver. The rand source is injected so the jitter
// used for tie-breaking is reproducible in tests.
func NewResolver(
	recipes *recipe.Repository,
	suggestions *suggestion.Repository,
	plans *Repository,
	provider weather.Provider,
	clk clock.Clock,
	rng *rand.Rand,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		recipes:     recipes,
		suggestions: suggestions,
		plans:       plans,
		provider:    provider,
		clk:         clk,
		rng:         rng,
		logger:      logger,
	}
}

// ResolveWeek returns today plus up to six forecast days. Each day resolves
// in priority order: today's suggestion log, then the stored plan entry, then
// a freshly generated pick. Picks accumulate left to right, so earlier days
// constrain later ones but not the other way around.
func (r *Resolver) ResolveWeek(ctx context.Context) ([]Day, error) {
	today := r.clk.Today()

	snap, err := r.provider.Current(ctx)
	if err != nil {
		return nil, err
	}
	forecast, err := r.provider.WeekForecast(ctx)
	if err != nil {
		return nil, err
	}

	forecastByDate := make(map[string]weather.ForecastDay, len(forecast))
	dates := []string{today}
	for _, f := range forecast {
		if f.Date == today {
			forecastByDate[today] = f
			continue
		}
		if len(dates) < 7 {
			dates = append(dates, f.Date)
		}
		forecastByDate[f.Date] = f
	}

	// Entries behind the window are never read again.
	if err := r.plans.DeleteBefore(ctx, today); err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		fc, hasForecast := forecastByDate[date]
		day, err := r.resolveDay(ctx, date, date == today, snap, fc, hasForecast, used)
		if err != nil {
			return nil, err
		}
		if day.Recipe != nil {
			used[day.Recipe.ID] = true
		}
		days = append(days, *day)
	}
	return days, nil
}

func (r *Resolver) resolveDay(ctx context.Context, date string, isToday bool, snap *weather.Snapshot, fc weather.ForecastDay, hasForecast bool, used map[string]bool) (*Day, error) {
	day := &Day{Date: date, IsToday: isToday}
	if isToday {
		day.Temp = snap.Temp
		day.Icon = snap.Icon
		day.Description = snap.Description
	} else if hasForecast {
		day.Temp = fc.Temp
		day.Icon = fc.Icon
		day.Description = fc.Description
	}

	// The suggestion log governs today whenever it has rows.
	if isToday {
		rows, err := r.suggestions.ListForDate(ctx, date)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			latest := rows[0]
			day.Status = latest.Status
			if latest.Status == suggestion.StatusCleared {
				return day, nil
			}
			rec, err := r.recipes.GetByID(ctx, latest.RecipeID)
			if err != nil {
				return nil, err
			}
			day.Recipe = rec
			return day, nil
		}
	}

	entry, err := r.plans.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		// Cached fields fill whatever the live forecast does not cover,
		// field by field. A zero temperature is a valid reading, so temp
		// only falls back when the date has no forecast row at all.
		if !isToday {
			if !hasForecast {
				day.Temp = entry.Temp
			}
			if day.Icon == "" {
				day.Icon = entry.Icon
			}
			if day.Description == "" {
				day.Description = entry.Description
			}
		}
		if entry.Cleared {
			return day, nil
		}
		if entry.RecipeID != nil {
			rec, err := r.recipes.GetByID(ctx, *entry.RecipeID)
			if err != nil {
				return nil, err
			}
			day.Recipe = rec
			return day, nil
		}
	}

	// No prior record: generate a pick for this day.
	rec, err := r.pickForDay(ctx, used, 10)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return day, nil // empty catalog; leave the day open
	}

	newEntry := &Entry{
		Date:        date,
		RecipeID:    &rec.ID,
		Temp:        day.Temp,
		Icon:        day.Icon,
		Description: day.Description,
	}
	if newEntry.Icon == "" {
		newEntry.Icon = defaultIcon
	}
	if err := r.plans.InsertIgnore(ctx, newEntry); err != nil {
		return nil, err
	}

	day.Recipe = rec
	r.logger.Debug("week plan day generated",
		zap.String("date", date), zap.String("recipe", rec.Name))
	return day, nil
}

// pickForDay scores candidates by season match plus random jitter and returns
// the top one. Recipes already used in the window are filtered out first;
// when that empties the pool the full catalog is reused so short catalogs
// still fill a week. Returns nil only for an empty catalog.
func (r *Resolver) pickForDay(ctx context.Context, used map[string]bool, maxJitter int) (*recipe.Recipe, error) {
	all, err := r.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	candidates := make([]recipe.Recipe, 0, len(all))
	for _, rec := range all {
		if !used[rec.ID] {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}

	season := recipe.SeasonForMonth(r.clk.Now().Month())
	best, bestScore := 0, -1
	for i, rec := range candidates {
		score := r.rng.Intn(maxJitter + 1)
		if rec.HasSeason(season) {
			score += 30
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return &candidates[best], nil
}

// SetDay pins a recipe to a date. For today this rewrites the suggestion log:
// every existing row is rejected and a manual accepted row is appended with a
// fresh weather snapshot. Other days upsert the plan entry, keeping cached
// weather when the row pre-existed.
func (r *Resolver) SetDay(ctx context.Context, date, recipeID string) error {
	if recipeID == "" {
		return apperr.InvalidInput("recipeId is required")
	}
	rec, err := r.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}

	if date == r.clk.Today() {
		if err := r.suggestions.MarkAllForDate(ctx, date, suggestion.StatusRejected); err != nil {
			return err
		}
		snap, err := r.provider.Current(ctx)
		if err != nil {
			return err
		}
		s := &suggestion.Suggestion{
			RecipeID:     rec.ID,
			SuggestedFor: date,
			Status:       suggestion.StatusAccepted,
			Reason:       suggestion.ScoreBreakdown{Manual: true},
			Weather:      *snap,
			CreatedAt:    r.clk.Now().UTC(),
		}
		return r.suggestions.Insert(ctx, s)
	}

	return r.upsertPick(ctx, date, rec.ID)
}

// ClearDay empties a date. Today's suggestion rows are all marked cleared;
// the plan entry is always written with the cleared flag.
func (r *Resolver) ClearDay(ctx context.Context, date string) error {
	if date == r.clk.Today() {
		if err := r.suggestions.MarkAllForDate(ctx, date, suggestion.StatusCleared); err != nil {
			return err
		}
	}

	entry, err := r.plans.Get(ctx, date)
	if err != nil {
		return err
	}
	cleared := &Entry{Date: date, Cleared: true, Icon: defaultIcon}
	if entry != nil {
		cleared.Temp = entry.Temp
		cleared.Icon = entry.Icon
		cleared.Description = entry.Description
	}
	return r.plans.Upsert(ctx, cleared)
}

// RegenerateDay rerolls a date's pick with a lighter heuristic than the main
// engine: season match plus a wider jitter, no weather term. The pool
// excludes every recipe used on other days, and for today also everything
// already suggested today. Today always becomes a fresh pending suggestion,
// overriding a manual accept.
func (r *Resolver) RegenerateDay(ctx context.Context, date string) (*recipe.Recipe, error) {
	today := r.clk.Today()

	used := make(map[string]bool)
	others, err := r.plans.ListOthers(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, e := range others {
		if e.RecipeID != nil {
			used[*e.RecipeID] = true
		}
	}
	if date == today {
		rows, err := r.suggestions.ListForDate(ctx, today)
		if err != nil {
			return nil, err
		}
		for _, s := range rows {
			used[s.RecipeID] = true
		}
	}

	all, err := r.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]recipe.Recipe, 0, len(all))
	for _, rec := range all {
		if !used[rec.ID] {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil, apperr.NoRecipesAvailable("no unused recipes left for %s", date)
	}

	season := recipe.SeasonForMonth(r.clk.Now().Month())
	best, bestScore, bestSeason := 0, -1, 0
	for i, rec := range candidates {
		seasonScore := 0
		if rec.HasSeason(season) {
			seasonScore = 30
		}
		score := seasonScore + r.rng.Intn(21)
		if score > bestScore {
			best, bestScore, bestSeason = i, score, seasonScore
		}
	}
	pick := candidates[best]

	if date == today {
		if err := r.suggestions.MarkAllForDate(ctx, today, suggestion.StatusRejected); err != nil {
			return nil, err
		}
		snap, err := r.provider.Current(ctx)
		if err != nil {
			return nil, err
		}
		s := &suggestion.Suggestion{
			RecipeID:     pick.ID,
			SuggestedFor: today,
			Status:       suggestion.StatusPending,
			Reason:       suggestion.ScoreBreakdown{SeasonScore: bestSeason, Total: bestSeason},
			Weather:      *snap,
			CreatedAt:    r.clk.Now().UTC(),
		}
		if err := r.suggestions.Insert(ctx, s); err != nil {
			return nil, err
		}
		return &pick, nil
	}

	if err := r.upsertPick(ctx, date, pick.ID); err != nil {
		return nil, err
	}
	return &pick, nil
}

// upsertPick writes a recipe pick for a non-today date, keeping cached
// weather fields when the row pre-existed and defaulting them otherwise.
func (r *Resolver) upsertPick(ctx context.Context, date, recipeID string) error {
	entry, err := r.plans.Get(ctx, date)
	if err != nil {
		return err
	}
	next := &Entry{Date: date, RecipeID: &recipeID, Icon: defaultIcon}
	if entry != nil {
		next.Temp = entry.Temp
		next.Icon = entry.Icon
		next.Description = entry.Description
	}
	return r.plans.Upsert(ctx, next)
}
