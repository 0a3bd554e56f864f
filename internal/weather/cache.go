package weather

import (
	"context"
	"sync"
	"time"

	"weekmenu/internal/clock"
)

// Cached wraps a Provider with a cache that goes stale after a fixed interval
// or when the local calendar day rolls over, whichever comes first. A miss
// triggers a blocking inline fetch; the external API is rate limited, so the
// cache keeps call volume low.
type Cached struct {
	provider Provider
	clk      clock.Clock
	ttl      time.Duration

	mu sync.Mutex

	current     *Snapshot
	currentAt   time.Time
	currentDay  string
	forecast    []ForecastDay
	forecastAt  time.Time
	forecastDay string
}

// NewCached wraps provider with the given TTL.
func NewCached(provider Provider, clk clock.Clock, ttl time.Duration) *Cached {
	return &Cached{provider: provider, clk: clk, ttl: ttl}
}

// Current returns the cached snapshot, refreshing it when stale.
func (c *Cached) Current(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.fresh(c.currentAt, c.currentDay) {
		snap := *c.current
		return &snap, nil
	}

	snap, err := c.provider.Current(ctx)
	if err != nil {
		return nil, err
	}
	c.current = snap
	c.currentAt = c.clk.Now()
	c.currentDay = c.clk.Today()

	out := *snap
	return &out, nil
}

// WeekForecast returns the cached forecast, refreshing it when stale.
func (c *Cached) WeekForecast(ctx context.Context) ([]ForecastDay, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.forecast != nil && c.fresh(c.forecastAt, c.forecastDay) {
		out := make([]ForecastDay, len(c.forecast))
		copy(out, c.forecast)
		return out, nil
	}

	days, err := c.provider.WeekForecast(ctx)
	if err != nil {
		return nil, err
	}
	c.forecast = days
	c.forecastAt = c.clk.Now()
	c.forecastDay = c.clk.Today()

	out := make([]ForecastDay, len(days))
	copy(out, days)
	return out, nil
}

func (c *Cached) fresh(fetchedAt time.Time, fetchedDay string) bool {
	if c.clk.Now().Sub(fetchedAt) >= c.ttl {
		return false
	}
	return fetchedDay == c.clk.Today()
}
