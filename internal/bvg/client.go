// Package bvg talks to the public BVG transport REST API.
package bvg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/resilience"
)

// DefaultBaseURL is the v6 endpoint. No authentication is required.
const DefaultBaseURL = "https://v6.bvg.transport.rest"

// Filters selects which products are requested. Ferries are never requested.
type Filters struct {
	Suburban bool
	Subway   bool
	Tram     bool
	Bus      bool
	Regional bool
	Express  bool
}

// AllProducts enables every product.
func AllProducts() Filters {
	return Filters{Suburban: true, Subway: true, Tram: true, Bus: true, Regional: true, Express: true}
}

// Location is a station search hit.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Client struct {
	BaseURL string
	// Duration is the lookahead window in minutes.
	Duration int
	Results  int
	Filters  Filters
	http     *resilience.Client
}

func NewClient(baseURL string, results int, filters Filters, http *resilience.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: baseURL, Duration: 60, Results: results, Filters: filters, http: http}
}

// Departures fetches the upcoming departures of a stop, nearest first.
func (c *Client) Departures(ctx context.Context, stopID string) ([]departure.Departure, error) {
	q := url.Values{}
	q.Set("duration", strconv.Itoa(c.Duration))
	if c.Results > 0 {
		q.Set("results", strconv.Itoa(c.Results))
	}
	q.Set("suburban", strconv.FormatBool(c.Filters.Suburban))
	q.Set("subway", strconv.FormatBool(c.Filters.Subway))
	q.Set("tram", strconv.FormatBool(c.Filters.Tram))
	q.Set("bus", strconv.FormatBool(c.Filters.Bus))
	q.Set("ferry", "false")
	q.Set("express", strconv.FormatBool(c.Filters.Express))
	q.Set("regional", strconv.FormatBool(c.Filters.Regional))

	body, err := c.http.GetBody(ctx, c.BaseURL+"/stops/"+url.PathEscape(stopID)+"/departures?"+q.Encode())
	if err != nil {
		return nil, err
	}
	raws, err := decodeDepartures(body)
	if err != nil {
		return nil, err
	}
	out := make([]departure.Departure, 0, len(raws))
	for _, raw := range raws {
		out = append(out, raw.toDeparture())
	}
	SortByTime(out)
	return out, nil
}

// decodeDepartures accepts both {"departures": [...]} and a bare array.
func decodeDepartures(body []byte) ([]rawDeparture, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []rawDeparture
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode departures: %w", err)
		}
		return raws, nil
	}
	var wrapped struct {
		Departures []rawDeparture `json:"departures"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode departures: %w", err)
	}
	return wrapped.Departures, nil
}

// SortByTime orders departures by effective time; unknown times go last.
func SortByTime(deps []departure.Departure) {
	sort.SliceStable(deps, func(i, j int) bool {
		ti, oki := deps[i].EffectiveTime()
		tj, okj := deps[j].EffectiveTime()
		if oki != okj {
			return oki
		}
		return ti.Before(tj)
	})
}

// Search looks up stations by name.
func (c *Client) Search(ctx context.Context, query string) ([]Location, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("results", "5")
	body, err := c.http.GetBody(ctx, c.BaseURL+"/locations?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var locs []Location
	if err := json.Unmarshal(body, &locs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return locs, nil
}

// StationName resolves the display name of a stop.
func (c *Client) StationName(ctx context.Context, stopID string) (string, error) {
	body, err := c.http.GetBody(ctx, c.BaseURL+"/stops/"+url.PathEscape(stopID))
	if err != nil {
		return "", err
	}
	var stop struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &stop); err != nil {
		return "", fmt.Errorf("decode stop: %w", err)
	}
	if stop.Name == "" {
		return FallbackName(stopID), nil
	}
	return stop.Name, nil
}

// FallbackName is shown when a station name cannot be resolved.
func FallbackName(stopID string) string { return "Station " + stopID }
