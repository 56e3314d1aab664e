package render

import (
	"image/color"
	"time"
)

// Board colors. Amber on black like the BVG street displays.
var (
	Foreground = color.RGBA{R: 0xFF, G: 0xAA, B: 0x00, A: 0xFF} // amber
	Background = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
)

// Timing controls every time-driven effect of the board.
type Timing struct {
	// BlinkPeriod is the full on+off cycle for hurry-zone highlighting,
	// cancellation alternation and the disconnected dot.
	BlinkPeriod time.Duration
	// ScrollSpeed in pixels per second.
	ScrollSpeed float64
	// ScrollPause is the hold at both ends of a scroll cycle.
	ScrollPause time.Duration
}

// LiveTiming is used on real displays.
func LiveTiming() Timing {
	return Timing{BlinkPeriod: 2 * time.Second, ScrollSpeed: 30, ScrollPause: 2 * time.Second}
}

// DemoTiming slows blinking down for screen recordings.
func DemoTiming() Timing {
	t := LiveTiming()
	t.BlinkPeriod = 3 * time.Second
	return t
}

// TimingProfile resolves a profile name ("live" or "demo").
func TimingProfile(name string) Timing {
	if name == "demo" {
		return DemoTiming()
	}
	return LiveTiming()
}

// Labels holds every fixed string the board draws.
type Labels struct {
	Cancelled         string
	NoDepartures      string
	NetworkError      string
	MinuteSuffix      string
	BootTitle         string
	LoadingStations   string
	LoadingWeather    string
	LoadingDepartures string
	BootReady         string
}

func GermanLabels() Labels {
	return Labels{
		Cancelled:         "Fällt aus",
		NoDepartures:      "Keine Abfahrten",
		NetworkError:      "Netzwerkfehler",
		MinuteSuffix:      "m",
		BootTitle:         "Abfahrt!",
		LoadingStations:   "Stationen laden...",
		LoadingWeather:    "Wetter laden...",
		LoadingDepartures: "Abfahrten laden...",
		BootReady:         "Hacke-di-hack!",
	}
}

func EnglishLabels() Labels {
	return Labels{
		Cancelled:         "Cancelled",
		NoDepartures:      "No departures",
		NetworkError:      "Network error",
		MinuteSuffix:      "m",
		BootTitle:         "Abfahrt!",
		LoadingStations:   "Loading stations...",
		LoadingWeather:    "Loading weather...",
		LoadingDepartures: "Loading departures...",
		BootReady:         "Ready!",
	}
}

// LabelsFor returns the labels of a language code, German by default.
func LabelsFor(language string) Labels {
	if language == "en" {
		return EnglishLabels()
	}
	return GermanLabels()
}

const (
	// Ellipsis is appended to truncated text. Two dots are narrower than "...".
	Ellipsis = ".."

	placeholderTime    = "--:--"
	placeholderMinutes = "--"

	// ProjectURL is shown on the boot splash.
	ProjectURL = "github.com/ydixken/abfahrt"
)
