package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ydixken/abfahrt/internal/resilience"
)

// DefaultBaseURL is the Open-Meteo forecast endpoint. No API key needed.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const forecastHours = 12

var ErrIncomplete = errors.New("weather: incomplete forecast response")

// Client queries Open-Meteo.
type Client struct {
	BaseURL  string
	Timezone string
	http     *resilience.Client
	now      func() time.Time
}

func NewClient(baseURL, timezone string, http *resilience.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timezone == "" {
		timezone = "Europe/Berlin"
	}
	return &Client{BaseURL: baseURL, Timezone: timezone, http: http, now: time.Now}
}

type forecastResponse struct {
	Current struct {
		Temperature2m *float64 `json:"temperature_2m"`
	} `json:"current"`
	Daily struct {
		Min []float64 `json:"temperature_2m_min"`
		Max []float64 `json:"temperature_2m_max"`
	} `json:"daily"`
	Hourly struct {
		Precipitation []float64 `json:"precipitation"`
	} `json:"hourly"`
}

// Fetch returns the weather at lat/lon.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (Data, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m")
	q.Set("daily", "temperature_2m_min,temperature_2m_max")
	q.Set("hourly", "precipitation")
	q.Set("timezone", c.Timezone)
	q.Set("forecast_days", "1")
	q.Set("forecast_hours", strconv.Itoa(forecastHours))

	body, err := c.http.GetBody(ctx, c.BaseURL+"?"+q.Encode())
	if err != nil {
		return Data{}, err
	}
	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Data{}, fmt.Errorf("decode forecast: %w", err)
	}
	if resp.Current.Temperature2m == nil || len(resp.Daily.Min) == 0 || len(resp.Daily.Max) == 0 {
		return Data{}, ErrIncomplete
	}
	precip := resp.Hourly.Precipitation
	if len(precip) > forecastHours {
		precip = precip[:forecastHours]
	}
	return Data{
		CurrentTemp:   *resp.Current.Temperature2m,
		DailyLow:      resp.Daily.Min[0],
		DailyHigh:     resp.Daily.Max[0],
		PrecipNext12h: precip,
		FetchedAt:     c.now(),
	}, nil
}
