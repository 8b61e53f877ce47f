package render

import (
	"time"
)

// StreamlineClass tags every path element drawn by the renderer
const StreamlineClass = "streamline"

// Transition is a linear change of a path's dash offset
type Transition struct {
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
}

// ValueAt returns the offset at now, clamped to the transition's end points
func (t Transition) ValueAt(now time.Time) float64 {
	if t.Duration <= 0 {
		return t.To
	}
	elapsed := now.Sub(t.Start)
	if elapsed <= 0 {
		return t.From
	}
	if elapsed >= t.Duration {
		return t.To
	}
	progress := float64(elapsed) / float64(t.Duration)
	return t.From + (t.To-t.From)*progress
}

// StreamlinePath is one drawn strand on the surface
type StreamlinePath struct {
	ID    string
	Class string
	Path  Path

	DashArray  float64
	DashOffset float64
	Transition *Transition
}

// OffsetAt returns the dash offset the path shows at now
func (sp *StreamlinePath) OffsetAt(now time.Time) float64 {
	if sp.Transition == nil {
		return sp.DashOffset
	}
	return sp.Transition.ValueAt(now)
}

// Surface is the drawing area and the set of paths currently on it
type Surface struct {
	width  float64
	height float64
	paths  []*StreamlinePath
	byID   map[string]*StreamlinePath
}

// NewSurface creates an empty surface with fixed dimensions
func NewSurface(width, height float64) *Surface {
	return &Surface{
		width:  width,
		height: height,
		byID:   make(map[string]*StreamlinePath),
	}
}

// Width returns the surface width
func (s *Surface) Width() float64 { return s.width }

// Height returns the surface height
func (s *Surface) Height() float64 { return s.height }

// Clear removes every path from the surface
func (s *Surface) Clear() {
	s.paths = nil
	s.byID = make(map[string]*StreamlinePath)
}

// AddPath appends a path to the surface
func (s *Surface) AddPath(p *StreamlinePath) {
	s.paths = append(s.paths, p)
	s.byID[p.ID] = p
}

// Paths returns the paths in drawing order
func (s *Surface) Paths() []*StreamlinePath {
	return append([]*StreamlinePath(nil), s.paths...)
}

// Streamlines returns the paths tagged with StreamlineClass
func (s *Surface) Streamlines() []*StreamlinePath {
	var out []*StreamlinePath
	for _, p := range s.paths {
		if p.Class == StreamlineClass {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether p is still attached to the surface
func (s *Surface) Contains(p *StreamlinePath) bool {
	current, ok := s.byID[p.ID]
	return ok && current == p
}

// Len returns the number of paths on the surface
func (s *Surface) Len() int { return len(s.paths) }

// Snapshot captures the surface as it looks at now
func (s *Surface) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Width:  s.width,
		Height: s.height,
		Paths:  make([]PathFrame, 0, len(s.paths)),
	}
	for _, p := range s.paths {
		frame := PathFrame{
			ID:         p.ID,
			D:          p.Path.D(),
			Length:     p.Path.Length,
			DashArray:  p.DashArray,
			DashOffset: p.OffsetAt(now),
		}
		if p.Transition != nil {
			frame.DurationMS = p.Transition.Duration.Milliseconds()
		}
		snap.Paths = append(snap.Paths, frame)
	}
	return snap
}

// Snapshot is an immutable copy of the surface for serialization
type Snapshot struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Paths  []PathFrame `json:"paths"`
}

// PathFrame is a single path inside a Snapshot
type PathFrame struct {
	ID         string  `json:"id"`
	D          string  `json:"d"`
	Length     float64 `json:"length"`
	DashArray  float64 `json:"dash_array"`
	DashOffset float64 `json:"dash_offset"`
	DurationMS int64   `json:"duration_ms"`
}
