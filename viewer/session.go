// Package viewer hosts the wind visualization session: the forecast cursor,
// the drawing surface and the animation loop, all mutated on one event loop.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"windflow/animation"
	"windflow/cursor"
	"windflow/datasource"
	"windflow/geometry"
	"windflow/metrics"
	"windflow/models"
	"windflow/render"
)

// Update kinds published to listeners
const (
	UpdateRender = "render"
	UpdateError  = "error"
)

// Update describes what changed after a refresh or an advance
type Update struct {
	Kind          string               `json:"type"`
	Display       models.DisplayFields `json:"display"`
	Index         int                  `json:"index"`
	Count         int                  `json:"count"`
	Generation    uint64               `json:"generation"`
	CycleDuration time.Duration        `json:"-"`
	CycleMS       int64                `json:"cycle_ms"`
	Scene         *render.Snapshot     `json:"scene,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// State is a read-only view of the session
type State struct {
	Display     models.DisplayFields `json:"display"`
	Loaded      bool                 `json:"loaded"`
	Index       int                  `json:"index"`
	Count       int                  `json:"count"`
	Speed       float64              `json:"wind_speed"`
	Generation  uint64               `json:"generation"`
	CycleMS     int64                `json:"cycle_ms"`
	Streamlines int                  `json:"streamlines"`
}

// Options configure the drawing surface and animation
type Options struct {
	Width     float64
	Height    float64
	Lines     int
	Inset     float64
	Curvature render.Curvature
	Animation animation.Options

	// Location is the display time zone. Nil keeps each sample's own zone.
	Location *time.Location
	// Scheduler overrides the event loop as the animation timer source
	Scheduler animation.Scheduler
	Now       func() time.Time
}

// DefaultOptions returns the layout used by the service
func DefaultOptions() Options {
	return Options{
		Width:     1200,
		Height:    800,
		Lines:     7,
		Inset:     400,
		Curvature: render.DefaultCurvature,
		Animation: animation.DefaultOptions,
		Location:  time.Local,
		Now:       time.Now,
	}
}

// Session owns the visualization state. Its exported methods may be called
// from any goroutine; the work itself always runs on the event loop.
type Session struct {
	loop   *animation.EventLoop
	source datasource.ForecastSource
	opts   Options

	cursor   *cursor.Cursor
	surface  *render.Surface
	renderer *render.Renderer
	animator *animation.Loop
	base     []geometry.LineSegment

	display   models.DisplayFields
	listeners []func(Update)
}

// NewSession wires a session onto loop, fetching from source
func NewSession(loop *animation.EventLoop, source datasource.ForecastSource, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = loop
	}

	surface := render.NewSurface(opts.Width, opts.Height)
	animator := animation.NewLoop(surface, sched, opts.Animation)
	animator.SetClock(opts.Now)
	animator.OnCycle = func(uint64) { metrics.AnimationCycles.Inc() }

	return &Session{
		loop:     loop,
		source:   source,
		opts:     opts,
		cursor:   cursor.New(),
		surface:  surface,
		renderer: render.NewRenderer(surface, opts.Curvature, animator),
		animator: animator,
		base:     geometry.GenerateBaseSegments(surface.Width(), surface.Height(), opts.Lines, opts.Inset),
	}
}

// OnUpdate registers fn to be called on the event loop after every render or
// failed refresh. Register listeners before the session is shared.
func (s *Session) OnUpdate(fn func(Update)) {
	s.listeners = append(s.listeners, fn)
}

// Refresh fetches a new series, selects the sample nearest to now and renders
// it. On failure the display fields switch to the error marker and the
// streamlines on screen are left alone.
func (s *Session) Refresh(ctx context.Context) error {
	series, fetchErr := s.source.FetchWindSeries(ctx)
	if fetchErr == nil {
		fetchErr = series.Validate()
	}
	metrics.ObserveFetch("viewer", fetchErr)

	err := s.loop.Do(ctx, func() {
		if fetchErr != nil {
			s.fail(fetchErr)
			return
		}
		if err := s.cursor.Replace(series, s.opts.Now()); err != nil {
			s.fail(err)
			return
		}
		sample, _ := s.cursor.Current()
		s.show(sample)
	})
	if err != nil {
		return err
	}
	if fetchErr != nil {
		return fmt.Errorf("refresh from %s: %w", s.source.Name(), fetchErr)
	}
	return nil
}

// Next advances the cursor cyclically and renders the new sample
func (s *Session) Next(ctx context.Context) (models.DisplayFields, error) {
	var (
		display models.DisplayFields
		advErr  error
	)
	err := s.loop.Do(ctx, func() {
		sample, err := s.cursor.Advance()
		if err != nil {
			advErr = err
			return
		}
		s.show(sample)
		display = s.display
	})
	if err != nil {
		return models.DisplayFields{}, err
	}
	return display, advErr
}

// Display returns the formatted fields currently shown
func (s *Session) Display(ctx context.Context) (models.DisplayFields, error) {
	var d models.DisplayFields
	err := s.loop.Do(ctx, func() { d = s.display })
	return d, err
}

// Scene returns the surface as it looks right now
func (s *Session) Scene(ctx context.Context) (render.Snapshot, error) {
	var snap render.Snapshot
	err := s.loop.Do(ctx, func() { snap = s.surface.Snapshot(s.opts.Now()) })
	return snap, err
}

// State returns a summary of the session
func (s *Session) State(ctx context.Context) (State, error) {
	var st State
	err := s.loop.Do(ctx, func() {
		st = State{
			Display:     s.display,
			Loaded:      s.cursor.Len() > 0,
			Index:       s.cursor.Index(),
			Count:       s.cursor.Len(),
			Speed:       s.animator.Speed(),
			Generation:  s.animator.Generation(),
			CycleMS:     s.animator.CycleDuration().Milliseconds(),
			Streamlines: len(s.surface.Streamlines()),
		}
	})
	return st, err
}

// Stop cancels the running animation
func (s *Session) Stop(ctx context.Context) error {
	return s.loop.Do(ctx, s.animator.Stop)
}

// show renders sample. Runs on the event loop.
func (s *Session) show(sample models.ForecastSample) {
	s.display = FormatDisplay(sample, s.opts.Location)

	angle := geometry.AngleForDirection(sample.WindDirection)
	s.animator.SetSpeed(sample.WindSpeed)
	s.renderer.Render(geometry.RotateAll(s.base, angle))

	cycle := s.animator.CycleDuration()
	metrics.RenderTotal.Inc()
	metrics.WindSpeed.Set(sample.WindSpeed)
	metrics.CycleSeconds.Set(cycle.Seconds())

	slog.Debug("rendered forecast sample",
		"index", s.cursor.Index(),
		"time", sample.Time,
		"wind_speed", sample.WindSpeed,
		"wind_direction", sample.WindDirection,
		"cycle", cycle,
	)

	snap := s.surface.Snapshot(s.opts.Now())
	s.publish(Update{
		Kind:          UpdateRender,
		Display:       s.display,
		Index:         s.cursor.Index(),
		Count:         s.cursor.Len(),
		Generation:    s.animator.Generation(),
		CycleDuration: cycle,
		CycleMS:       cycle.Milliseconds(),
		Scene:         &snap,
	})
}

// fail publishes the error marker. Runs on the event loop.
func (s *Session) fail(err error) {
	slog.Error("error fetching wind data", "source", s.source.Name(), "error", err)
	s.display = models.ErrorDisplay()
	s.publish(Update{
		Kind:       UpdateError,
		Display:    s.display,
		Index:      s.cursor.Index(),
		Count:      s.cursor.Len(),
		Generation: s.animator.Generation(),
		Error:      err.Error(),
	})
}

func (s *Session) publish(u Update) {
	for _, fn := range s.listeners {
		fn(u)
	}
}
