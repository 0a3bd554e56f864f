package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"weekmenu/internal/apperr"
	"weekmenu/internal/clock"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeather is a Provider backed by the OpenWeather API.
type OpenWeather struct {
	client *resty.Client
	apiKey string
	lat    float64
	lon    float64
}

// NewOpenWeather creates an OpenWeather provider for a fixed location.
func NewOpenWeather(apiKey string, lat, lon float64) *OpenWeather {
	client := resty.New().
		SetBaseURL(openWeatherBaseURL).
		SetTimeout(15 * time.Second)
	return &OpenWeather{client: client, apiKey: apiKey, lat: lat, lon: lon}
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the current weather.
func (o *OpenWeather) Current(ctx context.Context) (*Snapshot, error) {
	var body owmCurrent
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(o.params()).
		SetResult(&body).
		Get("/weather")
	if err != nil {
		return nil, apperr.Upstream(err, "weather provider unreachable")
	}
	if resp.IsError() {
		return nil, apperr.Upstream(fmt.Errorf("status %d", resp.StatusCode()),
			"weather provider returned an error")
	}

	snap := &Snapshot{
		Temp:      body.Main.Temp,
		FeelsLike: body.Main.FeelsLike,
		Humidity:  body.Main.Humidity,
		WindSpeed: body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		snap.Condition = body.Weather[0].Main
		snap.Description = body.Weather[0].Description
		snap.Icon = body.Weather[0].Icon
	}
	return snap, nil
}

type owmForecast struct {
	List []struct {
		Dt      int64          `json:"dt"`
		Weather []owmCondition `json:"weather"`
		Main    struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

// WeekForecast collapses the 3-hourly forecast into one reading per day,
// preferring the reading closest to midday.
func (o *OpenWeather) WeekForecast(ctx context.Context) ([]ForecastDay, error) {
	var body owmForecast
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(o.params()).
		SetResult(&body).
		Get("/forecast")
	if err != nil {
		return nil, apperr.Upstream(err, "weather provider unreachable")
	}
	if resp.IsError() {
		return nil, apperr.Upstream(fmt.Errorf("status %d", resp.StatusCode()),
			"weather provider returned an error")
	}

	type pick struct {
		day  ForecastDay
		dist int
	}
	byDate := make(map[string]pick)
	var order []string
	for _, item := range body.List {
		t := time.Unix(item.Dt, 0).Local()
		date := t.Format(clock.DateFormat)
		dist := t.Hour() - 12
		if dist < 0 {
			dist = -dist
		}
		day := ForecastDay{Date: date, Temp: item.Main.Temp}
		if len(item.Weather) > 0 {
			day.Icon = item.Weather[0].Icon
			day.Description = item.Weather[0].Description
		}
		existing, ok := byDate[date]
		if !ok {
			order = append(order, date)
			byDate[date] = pick{day: day, dist: dist}
			continue
		}
		if dist < existing.dist {
			byDate[date] = pick{day: day, dist: dist}
		}
	}

	days := make([]ForecastDay, 0, len(order))
	for _, date := range order {
		days = append(days, byDate[date].day)
	}
	return days, nil
}

func (o *OpenWeather) params() map[string]string {
	return map[string]string{
		"lat":   fmt.Sprintf("%.4f", o.lat),
		"lon":   fmt.Sprintf("%.4f", o.lon),
		"units": "metric",
		"appid": o.apiKey,
	}
}
