package animation

import (
	"math"
	"testing"
	"time"

	"windflow/geometry"
	"windflow/render"
)

type fakeTask struct {
	delay     time.Duration
	run       func()
	cancelled bool
}

type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) Schedule(d time.Duration, task func()) func() {
	ft := &fakeTask{delay: d, run: task}
	s.tasks = append(s.tasks, ft)
	return func() { ft.cancelled = true }
}

// fire runs every task scheduled so far, including cancelled ones, the way a
// timer that already fired would.
func (s *fakeScheduler) fire(includeCancelled bool) int {
	tasks := s.tasks
	s.tasks = nil
	ran := 0
	for _, ft := range tasks {
		if ft.cancelled && !includeCancelled {
			continue
		}
		ft.run()
		ran++
	}
	return ran
}

func newTestLoop(t *testing.T, lines int) (*Loop, *render.Renderer, *fakeScheduler) {
	t.Helper()
	surface := render.NewSurface(1200, 800)
	sched := &fakeScheduler{}
	loop := NewLoop(surface, sched, DefaultOptions)
	loop.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	r := render.NewRenderer(surface, render.DefaultCurvature, loop)
	r.Render(geometry.GenerateBaseSegments(1200, 800, lines, 400))
	return loop, r, sched
}

func TestDurationDecreasesWithSpeed(t *testing.T) {
	speeds := []float64{0.2, 0.5, 1, 2.5, 5, 10, 25, 60, 120}
	prev := DefaultOptions.Duration(speeds[0])
	for _, s := range speeds[1:] {
		d := DefaultOptions.Duration(s)
		if d >= prev {
			t.Fatalf("Duration(%v) = %v, not shorter than %v", s, d, prev)
		}
		prev = d
	}
}

func TestDurationFloorForCalmWind(t *testing.T) {
	ceiling := DefaultOptions.Duration(DefaultOptions.MinSpeed)
	for _, s := range []float64{0, -3, 0.01, math.NaN()} {
		d := DefaultOptions.Duration(s)
		if d <= 0 {
			t.Fatalf("Duration(%v) = %v, want positive", s, d)
		}
		if d != ceiling {
			t.Errorf("Duration(%v) = %v, want %v", s, d, ceiling)
		}
	}
}

func TestDurationSaturatesForTinyMinSpeed(t *testing.T) {
	opts := Options{SpeedFactor: 10, BaseScale: time.Second, MinSpeed: 1e-12}
	calm, light := opts.Duration(0), opts.Duration(1)
	if calm < light {
		t.Fatalf("Duration(0) = %v is shorter than Duration(1) = %v", calm, light)
	}
	if calm != maxDuration {
		t.Errorf("Duration(0) = %v, want the %v ceiling", calm, maxDuration)
	}
	if light != 10*time.Second {
		t.Errorf("Duration(1) = %v, want 10s", light)
	}
}

func TestDurationDefaultSpeed(t *testing.T) {
	if got := DefaultOptions.Duration(5); got != 2*time.Second {
		t.Fatalf("Duration(5) = %v, want 2s", got)
	}
}

func TestRestartRevealsEveryStreamline(t *testing.T) {
	loop, r, sched := newTestLoop(t, 4)
	sched.tasks = nil
	loop.SetSpeed(10)
	loop.Restart()

	paths := r.Surface().Streamlines()
	if len(sched.tasks) != len(paths) {
		t.Fatalf("scheduled %d completions, want %d", len(sched.tasks), len(paths))
	}
	for _, p := range paths {
		if p.DashArray != p.Path.Length || p.DashOffset != p.Path.Length {
			t.Errorf("path %s not hidden: array=%v offset=%v length=%v", p.ID, p.DashArray, p.DashOffset, p.Path.Length)
		}
		if p.Transition == nil || p.Transition.To != 0 || p.Transition.Duration != time.Second {
			t.Errorf("path %s transition = %+v", p.ID, p.Transition)
		}
	}
	for _, task := range sched.tasks {
		if task.delay != time.Second {
			t.Errorf("completion scheduled after %v, want 1s", task.delay)
		}
	}
}

func TestCompletionReschedulesReveal(t *testing.T) {
	loop, _, sched := newTestLoop(t, 3)
	cycles := 0
	loop.OnCycle = func(uint64) { cycles++ }

	for i := 0; i < 5; i++ {
		if ran := sched.fire(false); ran != 3 {
			t.Fatalf("round %d ran %d completions, want 3", i, ran)
		}
	}
	if cycles != 15 {
		t.Fatalf("got %d cycles, want 15", cycles)
	}
	if loop.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", loop.Pending())
	}
}

func TestStaleGenerationIsNoop(t *testing.T) {
	loop, r, sched := newTestLoop(t, 3)
	stale := sched.tasks
	oldPaths := r.Surface().Paths()

	r.Render(geometry.GenerateBaseSegments(1200, 800, 3, 400))
	fresh := sched.tasks[len(stale):]
	sched.tasks = nil

	cycles := 0
	loop.OnCycle = func(uint64) { cycles++ }

	for _, task := range stale {
		if !task.cancelled {
			t.Fatal("stale completion was not cancelled")
		}
		task.run()
	}
	if cycles != 0 || len(sched.tasks) != 0 {
		t.Fatalf("stale callbacks acted: cycles=%d rescheduled=%d", cycles, len(sched.tasks))
	}
	for _, p := range oldPaths {
		if p.Transition == nil {
			t.Errorf("removed path %s was touched by a stale callback", p.ID)
		}
	}

	for _, task := range fresh {
		task.run()
	}
	if cycles != 3 {
		t.Fatalf("fresh generation produced %d cycles, want 3", cycles)
	}
}

func TestStopCancelsEverything(t *testing.T) {
	loop, _, sched := newTestLoop(t, 2)
	gen := loop.Generation()
	loop.Stop()

	if loop.Pending() != 0 {
		t.Fatalf("pending = %d after Stop", loop.Pending())
	}
	if loop.Generation() == gen {
		t.Fatal("Stop did not advance the generation")
	}
	sched.fire(true)
	if len(sched.tasks) != 0 {
		t.Fatal("a stopped loop rescheduled itself")
	}
}
