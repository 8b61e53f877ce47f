// Package animation drives the perpetual dash offset reveal of streamlines.
//
// Everything in this package assumes a single logical thread: Loop methods and
// the callbacks it schedules must all run on the same EventLoop.
package animation

import (
	"math"
	"time"

	"windflow/render"
)

// Scheduler runs task once after d. The returned function cancels the task if
// it has not started yet.
type Scheduler interface {
	Schedule(d time.Duration, task func()) (cancel func())
}

// Options are the tunables of the reveal duration
type Options struct {
	SpeedFactor float64
	BaseScale   time.Duration
	MinSpeed    float64 // speeds below this are treated as MinSpeed
}

// DefaultOptions animate a 5 km/h sample in two seconds
var DefaultOptions = Options{
	SpeedFactor: 10,
	BaseScale:   time.Second,
	MinSpeed:    0.1,
}

// Bounds of a single reveal
const (
	minDuration = time.Millisecond
	maxDuration = time.Duration(math.MaxInt64)
)

func (o Options) normalized() Options {
	if o.SpeedFactor <= 0 {
		o.SpeedFactor = DefaultOptions.SpeedFactor
	}
	if o.BaseScale <= 0 {
		o.BaseScale = DefaultOptions.BaseScale
	}
	if o.MinSpeed <= 0 {
		o.MinSpeed = DefaultOptions.MinSpeed
	}
	return o
}

// Duration returns how long one reveal takes at the given wind speed. Faster
// wind gives a shorter reveal; zero, negative and NaN speeds are clamped to
// MinSpeed.
func (o Options) Duration(speed float64) time.Duration {
	o = o.normalized()
	if math.IsNaN(speed) || speed < o.MinSpeed {
		speed = o.MinSpeed
	}
	ns := o.SpeedFactor / speed * float64(o.BaseScale)
	if ns >= float64(maxDuration) {
		return maxDuration
	}
	d := time.Duration(ns)
	if d < minDuration {
		d = minDuration
	}
	return d
}

// Loop restarts the reveal of every streamline on a surface forever, one
// generation at a time.
type Loop struct {
	surface *render.Surface
	sched   Scheduler
	opts    Options
	now     func() time.Time

	// OnCycle, if set, is called each time a path completes a reveal
	OnCycle func(generation uint64)

	speed      float64
	generation uint64
	pending    map[*render.StreamlinePath]func()
}

// NewLoop creates a loop animating the streamlines of surface
func NewLoop(surface *render.Surface, sched Scheduler, opts Options) *Loop {
	return &Loop{
		surface: surface,
		sched:   sched,
		opts:    opts.normalized(),
		now:     time.Now,
		pending: make(map[*render.StreamlinePath]func()),
	}
}

// SetClock replaces the time source used for transition start times
func (l *Loop) SetClock(now func() time.Time) { l.now = now }

// SetSpeed sets the wind speed used by the next Restart
func (l *Loop) SetSpeed(speed float64) { l.speed = speed }

// Speed returns the current wind speed
func (l *Loop) Speed() float64 { return l.speed }

// Generation returns the token of the live animation generation
func (l *Loop) Generation() uint64 { return l.generation }

// CycleDuration returns the reveal duration for the current speed
func (l *Loop) CycleDuration() time.Duration { return l.opts.Duration(l.speed) }

// Pending returns the number of scheduled completions
func (l *Loop) Pending() int { return len(l.pending) }

// Restart supersedes the running generation and starts a reveal on every
// streamline currently on the surface.
func (l *Loop) Restart() {
	l.cancelPending()
	l.generation++
	gen := l.generation
	d := l.CycleDuration()
	for _, p := range l.surface.Streamlines() {
		l.reveal(gen, p, d)
	}
}

// Stop cancels all scheduled completions. Callbacks already queued exit
// without touching the surface.
func (l *Loop) Stop() {
	l.cancelPending()
	l.generation++
}

func (l *Loop) reveal(gen uint64, p *render.StreamlinePath, d time.Duration) {
	length := p.Path.Length
	p.DashArray = length
	p.DashOffset = length
	p.Transition = &render.Transition{From: length, To: 0, Start: l.now(), Duration: d}
	l.pending[p] = l.sched.Schedule(d, func() { l.complete(gen, p, d) })
}

func (l *Loop) complete(gen uint64, p *render.StreamlinePath, d time.Duration) {
	if gen != l.generation || !l.surface.Contains(p) {
		return
	}
	delete(l.pending, p)
	p.DashOffset = 0
	p.Transition = nil
	if l.OnCycle != nil {
		l.OnCycle(gen)
	}
	l.reveal(gen, p, d)
}

func (l *Loop) cancelPending() {
	for p, cancel := range l.pending {
		cancel()
		delete(l.pending, p)
	}
}
