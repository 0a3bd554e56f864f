package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekmenu/internal/recipe"
)

func TestSnapshotTags(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want []recipe.WeatherTag
	}{
		{
			name: "cold and raining",
			snap: Snapshot{Temp: 5, Condition: "Rain"},
			want: []recipe.WeatherTag{recipe.WeatherKoud, recipe.WeatherRegenachtig},
		},
		{
			name: "warm and clear",
			snap: Snapshot{Temp: 25, Condition: "Clear"},
			want: []recipe.WeatherTag{recipe.WeatherWarm, recipe.WeatherZonnig},
		},
		{
			name: "drizzle counts as rain",
			snap: Snapshot{Temp: 12, Condition: "Drizzle"},
			want: []recipe.WeatherTag{recipe.WeatherRegenachtig},
		},
		{
			name: "clouds count as sunny",
			snap: Snapshot{Temp: 15, Condition: "Clouds"},
			want: []recipe.WeatherTag{recipe.WeatherZonnig},
		},
		{
			name: "mild mist has no tags",
			snap: Snapshot{Temp: 15, Condition: "Mist"},
			want: nil,
		},
		{
			name: "boundaries are exclusive",
			snap: Snapshot{Temp: 10, Condition: "Fog"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Tags())
		})
	}
}

// stepClock is a mutable clock for cache expiry tests.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }
func (c *stepClock) Today() string  { return c.t.Format("2006-01-02") }

type countingProvider struct {
	snap  Snapshot
	days  []ForecastDay
	calls int
}

func (p *countingProvider) Current(context.Context) (*Snapshot, error) {
	p.calls++
	s := p.snap
	return &s, nil
}

func (p *countingProvider) WeekForecast(context.Context) ([]ForecastDay, error) {
	p.calls++
	out := make([]ForecastDay, len(p.days))
	copy(out, p.days)
	return out, nil
}

func TestCachedServesWithinTTL(t *testing.T) {
	clk := &stepClock{t: time.Date(2026, 1, 15, 10, 0, 0, 0, time.Local)}
	upstream := &countingProvider{snap: Snapshot{Temp: 8, Condition: "Rain"}}
	cached := NewCached(upstream, clk, 30*time.Minute)
	ctx := context.Background()

	first, err := cached.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8.0, first.Temp)

	clk.t = clk.t.Add(10 * time.Minute)
	_, err = cached.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.calls)

	clk.t = clk.t.Add(25 * time.Minute)
	_, err = cached.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedExpiresOnDayRollover(t *testing.T) {
	clk := &stepClock{t: time.Date(2026, 1, 15, 23, 50, 0, 0, time.Local)}
	upstream := &countingProvider{snap: Snapshot{Temp: 3}}
	cached := NewCached(upstream, clk, 6*time.Hour)
	ctx := context.Background()

	_, err := cached.Current(ctx)
	require.NoError(t, err)

	// Fifteen minutes later the TTL has plenty left, but it is a new day.
	clk.t = clk.t.Add(15 * time.Minute)
	_, err = cached.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedReturnsCopies(t *testing.T) {
	clk := &stepClock{t: time.Date(2026, 1, 15, 10, 0, 0, 0, time.Local)}
	upstream := &countingProvider{snap: Snapshot{Temp: 8}}
	cached := NewCached(upstream, clk, time.Hour)
	ctx := context.Background()

	first, err := cached.Current(ctx)
	require.NoError(t, err)
	first.Temp = 99

	second, err := cached.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8.0, second.Temp)
}
