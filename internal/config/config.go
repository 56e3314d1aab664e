// Package config loads the board configuration: built-in defaults, then a
// YAML file, then command line overrides, validated once at the end.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "config.yaml"
	DefaultStationID = "900023201" // S Savignyplatz
	DefaultWalking   = 5
	DefaultTimezone  = "Europe/Berlin"
)

var ErrNoStations = errors.New("no stations configured")

type Station struct {
	ID             string   `yaml:"id" validate:"required,numeric"`
	Name           string   `yaml:"name"`
	WalkingMinutes int      `yaml:"walking_minutes" validate:"gte=0,lte=120"`
	Lines          []string `yaml:"lines" validate:"dive,required"`
}

// UnmarshalYAML fills keys missing from a station entry with the defaults.
func (s *Station) UnmarshalYAML(node *yaml.Node) error {
	type plain Station
	out := plain{ID: DefaultStationID, WalkingMinutes: DefaultWalking}
	if err := node.Decode(&out); err != nil {
		return err
	}
	*s = Station(out)
	return nil
}

type Rotation struct {
	IntervalSeconds int `yaml:"interval_seconds" validate:"gte=1"`
}

type SSD1322 struct {
	Bus      string `yaml:"bus"`
	SpeedHz  int64  `yaml:"speed_hz" validate:"gt=0"`
	DCPin    string `yaml:"dc_pin" validate:"required"`
	ResetPin string `yaml:"reset_pin" validate:"required"`
}

type Display struct {
	Mode        string `yaml:"mode" validate:"oneof=framebuffer ssd1322 png"`
	Width       int    `yaml:"width" validate:"gt=0"`
	Height      int    `yaml:"height" validate:"gt=0"`
	FPS         int    `yaml:"fps" validate:"gte=1,lte=120"`
	ShowRemarks bool   `yaml:"show_remarks"`
	ShowItems   int    `yaml:"show_items" validate:"gte=1,lte=20"`
	// HurryFloor is the lowest minute count a departure may have to be shown.
	HurryFloor int `yaml:"hurry_floor" validate:"gte=0,lte=1"`
	// EmptyFilterFallback decides what a station shows when its line filter
	// matches nothing: "empty" shows the empty page, "all" ignores the filter.
	EmptyFilterFallback string  `yaml:"empty_filter_fallback" validate:"oneof=empty all"`
	Profile             string  `yaml:"profile" validate:"oneof=live demo"`
	Language            string  `yaml:"language" validate:"oneof=de en"`
	Timezone            string  `yaml:"timezone" validate:"required"`
	Device              string  `yaml:"device"`
	PNGPath             string  `yaml:"png_path" validate:"required_if=Mode png"`
	SSD1322             SSD1322 `yaml:"ssd1322"`
}

type Refresh struct {
	IntervalSeconds int `yaml:"interval_seconds" validate:"gte=1"`
	DepartureCount  int `yaml:"departure_count" validate:"gte=1,lte=100"`
}

type Filters struct {
	Suburban bool `yaml:"suburban"`
	Subway   bool `yaml:"subway"`
	Tram     bool `yaml:"tram"`
	Bus      bool `yaml:"bus"`
	Express  bool `yaml:"express"`
	Regional bool `yaml:"regional"`
}

// Fonts names TTF/OTF files under Dir. An empty Dir uses the embedded fonts.
type Fonts struct {
	Dir             string `yaml:"dir"`
	Header          string `yaml:"font_header"`
	Main            string `yaml:"font_main"`
	Remark          string `yaml:"font_remark"`
	StationNameSize int    `yaml:"station_name_size" validate:"gte=1"`
	HeaderSize      int    `yaml:"header_size" validate:"gte=1"`
	DepartureSize   int    `yaml:"departure_size" validate:"gte=1"`
	RemarkSize      int    `yaml:"remark_size" validate:"gte=1"`
}

type Weather struct {
	Enabled        bool    `yaml:"enabled"`
	Latitude       float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude      float64 `yaml:"longitude" validate:"gte=-180,lte=180"`
	RefreshSeconds int     `yaml:"refresh_seconds" validate:"gte=60"`
}

// API holds upstream endpoints.
type API struct {
	BVGURL         string `yaml:"bvg_url" validate:"required,url"`
	WeatherURL     string `yaml:"weather_url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=1"`
}

// Web configures the optional status API. An empty Listen disables it.
type Web struct {
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
	Dev    bool   `yaml:"dev"`
}

type Config struct {
	Stations []Station `yaml:"stations" validate:"dive"`
	Rotation Rotation  `yaml:"rotation"`
	Display  Display   `yaml:"display"`
	Refresh  Refresh   `yaml:"refresh"`
	Filters  Filters   `yaml:"filters"`
	Fonts    Fonts     `yaml:"fonts"`
	Weather  Weather   `yaml:"weather"`
	API      API       `yaml:"api"`
	Web      Web       `yaml:"web"`
}

func Default() Config {
	return Config{
		Stations: []Station{{ID: DefaultStationID, WalkingMinutes: DefaultWalking}},
		Rotation: Rotation{IntervalSeconds: 10},
		Display: Display{
			Mode:                "framebuffer",
			Width:               1520,
			Height:              180,
			FPS:                 30,
			ShowRemarks:         true,
			ShowItems:           4,
			HurryFloor:          1,
			EmptyFilterFallback: "empty",
			Profile:             "live",
			Language:            "de",
			Timezone:            DefaultTimezone,
			Device:              "/dev/fb0",
			SSD1322: SSD1322{
				Bus:      "SPI0.0",
				SpeedHz:  8_000_000,
				DCPin:    "GPIO24",
				ResetPin: "GPIO25",
			},
		},
		Refresh: Refresh{IntervalSeconds: 30, DepartureCount: 20},
		Filters: Filters{Suburban: true, Subway: true, Tram: true, Bus: false, Express: true, Regional: true},
		Fonts: Fonts{
			Header:          "JetBrainsMono-Bold.ttf",
			Main:            "JetBrainsMono-Medium.ttf",
			Remark:          "JetBrainsMono-Regular.ttf",
			StationNameSize: 20,
			HeaderSize:      13,
			DepartureSize:   18,
			RemarkSize:      13,
		},
		Weather: Weather{Enabled: true, Latitude: 52.5170, Longitude: 13.4540, RefreshSeconds: 600},
		API: API{
			BVGURL:         "https://v6.bvg.transport.rest",
			WeatherURL:     "https://api.open-meteo.com/v1/forecast",
			TimeoutSeconds: 10,
		},
	}
}

// Load overlays the YAML file at path onto the defaults. A missing file is
// not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Overrides are command line values. Zero values leave the config untouched.
type Overrides struct {
	StationID       string
	RefreshSeconds  int
	RotationSeconds int
}

// Apply returns cfg with the overrides applied. A station override replaces
// the whole station list with that single stop.
func (cfg Config) Apply(o Overrides) Config {
	if o.StationID != "" {
		cfg.Stations = []Station{{ID: o.StationID, WalkingMinutes: DefaultWalking}}
	}
	if o.RefreshSeconds > 0 {
		cfg.Refresh.IntervalSeconds = o.RefreshSeconds
	}
	if o.RotationSeconds > 0 {
		cfg.Rotation.IntervalSeconds = o.RotationSeconds
	}
	return cfg
}

func (cfg Config) Validate() error {
	if len(cfg.Stations) == 0 {
		return ErrNoStations
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Display.Timezone); err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", cfg.Display.Timezone, err)
	}
	return nil
}

func (cfg Config) RefreshInterval() time.Duration {
	return time.Duration(cfg.Refresh.IntervalSeconds) * time.Second
}

func (cfg Config) RotationInterval() time.Duration {
	return time.Duration(cfg.Rotation.IntervalSeconds) * time.Second
}

func (cfg Config) WeatherRefresh() time.Duration {
	return time.Duration(cfg.Weather.RefreshSeconds) * time.Second
}

func (cfg Config) APITimeout() time.Duration {
	return time.Duration(cfg.API.TimeoutSeconds) * time.Second
}

// Location resolves the display timezone, falling back to UTC.
func (cfg Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
