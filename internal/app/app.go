package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ydixken/abfahrt/internal/buttons"
	"github.com/ydixken/abfahrt/internal/bvg"
	"github.com/ydixken/abfahrt/internal/config"
	"github.com/ydixken/abfahrt/internal/departure"
	"github.com/ydixken/abfahrt/internal/display"
	"github.com/ydixken/abfahrt/internal/render"
	"github.com/ydixken/abfahrt/internal/state"
	"github.com/ydixken/abfahrt/internal/weather"
)

const (
	// MinBootTime keeps the splash readable even when every fetch is instant.
	MinBootTime = 3 * time.Second

	bootTimeout    = 3 * time.Second
	refreshTimeout = 10 * time.Second
	refreshTick    = time.Second
)

// Departures is the upstream timetable.
type Departures interface {
	Departures(ctx context.Context, stopID string) ([]departure.Departure, error)
	StationName(ctx context.Context, stopID string) (string, error)
}

type WeatherSource interface {
	Fetch(ctx context.Context, lat, lon float64) (weather.Data, error)
}

// Notifier receives lifecycle events, e.g. for systemd.
type Notifier interface {
	Ready()
	Status(msg string)
	Watchdog()
	Stopping()
}

type noopNotifier struct{}

func (noopNotifier) Ready()        {}
func (noopNotifier) Status(string) {}
func (noopNotifier) Watchdog()     {}
func (noopNotifier) Stopping()     {}

type App struct {
	Config  config.Config
	Store   *state.Store
	Render  *render.Renderer
	Display display.Display
	Buttons buttons.Buttons
	API     Departures
	// Weather may be nil when the header shows no forecast.
	Weather WeatherSource
	Notify  Notifier
	Logger  Logger
	Version string

	// MinBoot overrides MinBootTime.
	MinBoot time.Duration

	now   func() time.Time
	frame atomic.Pointer[image.RGBA]

	// owned by the render loop
	lastRotation time.Time
	lastShowErr  string

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(cfg config.Config, store *state.Store, renderer *render.Renderer, disp display.Display, api Departures) *App {
	return &App{
		Config:  cfg,
		Store:   store,
		Render:  renderer,
		Display: disp,
		Buttons: buttons.NewNoopButtons(),
		API:     api,
		Notify:  noopNotifier{},
		Logger:  NoopLogger{},
		MinBoot: MinBootTime,
		now:     time.Now,
		exitCh:  make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Frame returns the last presented frame, or nil before the first one.
func (app *App) Frame() image.Image {
	if img := app.frame.Load(); img != nil {
		return img
	}
	return nil
}

// Start boots the board and runs the render loop until ctx is done, Exit
// is called or an exit key is pressed.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.now == nil {
		app.now = time.Now
	}
	app.exitOnce.Store(false)
	defer app.Notify.Stopping()

	if err := app.Buttons.Start(ctx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
	}
	defer func() { _ = app.Buttons.Stop() }()

	app.Logger.Infof("app", "starting with %d station(s), refresh=%ds, rotation=%ds",
		len(app.Config.Stations), app.Config.Refresh.IntervalSeconds, app.Config.Rotation.IntervalSeconds)

	if err := app.boot(ctx); err != nil {
		app.Store.SetPhase(state.STOPPING)
		return err
	}

	app.Store.SetPhase(state.RUNNING)
	app.Store.SetStatus("Running")
	app.Notify.Ready()
	app.Notify.Status("Running")
	app.Logger.Infof("app", "entering main loop")

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.refreshLoop(loopCtx)
	}()

	err := app.renderLoop(loopCtx)
	app.Store.SetPhase(state.STOPPING)
	cancel()
	wg.Wait()
	return err
}

func (app *App) boot(ctx context.Context) error {
	start := app.now()
	labels := app.Render.Labels()
	app.Store.SetPhase(state.BOOTING)

	app.showBoot(labels.LoadingStations)
	stations := app.resolveStations(ctx)
	if len(stations) == 0 {
		return config.ErrNoStations
	}
	app.Store.SetStations(stations)
	app.lastRotation = app.now()

	if app.Weather != nil {
		app.showBoot(labels.LoadingWeather)
		app.refreshWeather(ctx, bootTimeout)
	}
	app.showBoot(labels.LoadingDepartures)
	app.refreshStations(ctx, bootTimeout)
	app.showBoot(labels.BootReady)

	if remaining := app.MinBoot - app.now().Sub(start); remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(remaining):
		}
	}
	app.lastRotation = app.now()
	app.Render.ResetScroll(app.now())
	return nil
}

func (app *App) showBoot(status string) {
	app.Store.SetStatus(status)
	app.Notify.Status(status)
	app.present(app.Render.RenderBoot(status, app.Version))
}

// resolveStations looks up missing station names. Lookups that fail fall
// back to a generic name.
func (app *App) resolveStations(ctx context.Context) []state.Station {
	stations := make([]state.Station, 0, len(app.Config.Stations))
	for _, sc := range app.Config.Stations {
		name := sc.Name
		if name == "" {
			cctx, cancel := context.WithTimeout(ctx, bootTimeout)
			resolved, err := app.API.StationName(cctx, sc.ID)
			cancel()
			if err != nil {
				app.Logger.Errorf("app", "could not resolve name for station %s: %v", sc.ID, err)
				resolved = bvg.FallbackName(sc.ID)
			} else {
				app.Logger.Infof("app", "resolved station %s -> %s", sc.ID, resolved)
			}
			name = resolved
		}
		stations = append(stations, state.Station{
			ID:             sc.ID,
			Name:           name,
			WalkingMinutes: sc.WalkingMinutes,
			Lines:          append([]string(nil), sc.Lines...),
		})
	}
	return stations
}

func (app *App) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(refreshTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if app.Weather != nil {
				app.refreshWeather(ctx, refreshTimeout)
			}
			app.refreshStations(ctx, refreshTimeout)
		}
	}
}

// refreshStations fetches every station whose data is older than the
// refresh interval.
func (app *App) refreshStations(ctx context.Context, timeout time.Duration) {
	snap := app.Store.Snapshot()
	interval := app.Config.RefreshInterval()
	for i, st := range snap.Stations {
		if ctx.Err() != nil {
			return
		}
		if !st.NeedsRefresh(app.now(), interval) {
			continue
		}
		t0 := app.now()
		cctx, cancel := context.WithTimeout(ctx, timeout)
		deps, err := app.API.Departures(cctx, st.ID)
		cancel()
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return
			}
			app.Logger.Errorf("app", "failed to fetch departures for %s: %v", st.Name, err)
			app.Store.RecordFailure(i, err, app.now())
			continue
		}
		app.Store.RecordFetch(i, deps, app.now())
		app.Logger.Infof("app", "fetched %d departures for %s (%.1fs)", len(deps), st.Name, app.now().Sub(t0).Seconds())
	}
}

func (app *App) refreshWeather(ctx context.Context, timeout time.Duration) {
	snap := app.Store.Snapshot()
	if snap.Weather != nil && !snap.Weather.Stale(app.now(), app.Config.WeatherRefresh()) {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	w, err := app.Weather.Fetch(cctx, app.Config.Weather.Latitude, app.Config.Weather.Longitude)
	if err != nil {
		if ctx.Err() == nil {
			app.Logger.Errorf("app", "failed to fetch weather: %v", err)
		}
		return
	}
	app.Store.UpdateWeather(w)
	app.Logger.Infof("app", "weather: %.0f° (%.0f/%.0f°), precip %q", w.CurrentTemp, w.DailyLow, w.DailyHigh, w.PrecipSummary())
}

func (app *App) renderLoop(ctx context.Context) error {
	fps := max(1, app.Config.Display.FPS)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	events := app.Buttons.Events()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch ev {
			case buttons.Exit:
				app.Logger.Infof("app", "exit requested")
				return nil
			case buttons.Next:
				app.rotate(app.now())
			}
		case <-ticker.C:
			app.present(app.renderFrame(app.now()))
			app.Notify.Watchdog()
		}
	}
}

// renderFrame picks one of three pages for the active station: the board
// when something is visible, the empty page once a fetch was attempted,
// and the network error page before that. Rotation is checked after
// drawing since it depends on whether scrolling finished.
func (app *App) renderFrame(now time.Time) *image.RGBA {
	snap := app.Store.Snapshot()
	st, ok := snap.ActiveStation()
	if !ok {
		return app.Render.RenderError(app.Render.Labels().NetworkError)
	}

	visible := SelectDepartures(st.Departures, now, Selection{
		WalkingMinutes: st.WalkingMinutes,
		HurryFloor:     app.Config.Display.HurryFloor,
		Lines:          st.Lines,
		FallbackAll:    app.Config.Display.EmptyFilterFallback == "all",
	})
	frame := render.Frame{
		Now:            now,
		Station:        st.Name,
		WalkingMinutes: st.WalkingMinutes,
		Weather:        snap.Weather,
		Page:           snap.Active,
		Connected:      st.FetchOK,
		Departures:     visible,
		LineFilter:     st.Lines,
	}

	var img *image.RGBA
	done := true
	switch {
	case len(visible) > 0:
		img, done = app.Render.Render(frame)
	case !st.LastFetch.IsZero():
		img = app.Render.RenderEmpty(frame)
	default:
		img = app.Render.RenderError(app.Render.Labels().NetworkError)
	}

	if len(snap.Stations) > 1 && done && now.Sub(app.lastRotation) >= app.Config.RotationInterval() {
		app.rotate(now)
	}
	return img
}

// rotate switches to the next station and restarts the scroll animation.
func (app *App) rotate(now time.Time) {
	snap := app.Store.Snapshot()
	if len(snap.Stations) <= 1 {
		return
	}
	i := app.Store.Rotate()
	app.lastRotation = now
	app.Render.ResetScroll(now)
	app.Logger.Infof("app", "rotated to station: %s", snap.Stations[i].Name)
}

func (app *App) present(img *image.RGBA) {
	app.frame.Store(img)
	if app.Display == nil {
		return
	}
	err := app.Display.Update(img)
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	// Only log changes; the loop runs at frame rate.
	if msg != app.lastShowErr {
		if err != nil {
			app.Logger.Errorf("display", "update failed: %v", err)
		} else {
			app.Logger.Infof("display", "update recovered")
		}
		app.lastShowErr = msg
	}
}
