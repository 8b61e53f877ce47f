// Package geometry computes the reference lines that streamlines are drawn from
package geometry

import "math"

// LineSegment is an endpoint pair in drawing-surface coordinates
type LineSegment struct {
	X1, Y1, X2, Y2 float64
}

// Midpoint returns the center of the segment
func (s LineSegment) Midpoint() (float64, float64) {
	return (s.X1 + s.X2) / 2, (s.Y1 + s.Y2) / 2
}

// Length returns the distance between the two endpoints
func (s LineSegment) Length() float64 { return math.Hypot(s.X2-s.X1, s.Y2-s.Y1) }

// Slope returns dy/dx. ok is false for vertical segments.
func (s LineSegment) Slope() (slope float64, ok bool) {
	dx := s.X2 - s.X1
	if dx == 0 {
		return 0, false
	}
	return (s.Y2 - s.Y1) / dx, true
}

// Rising reports whether the segment has a strictly positive slope
func (s LineSegment) Rising() bool {
	slope, ok := s.Slope()
	return ok && slope > 0
}

// GenerateBaseSegments returns count horizontal segments evenly spaced in the
// vertical extent, each running from inset to width-inset.
func GenerateBaseSegments(width, height float64, count int, inset float64) []LineSegment {
	if count <= 0 {
		return nil
	}
	spacing := height / float64(count+1)
	segments := make([]LineSegment, count)
	for i := range segments {
		y := spacing * float64(i+1)
		segments[i] = LineSegment{X1: inset, Y1: y, X2: width - inset, Y2: y}
	}
	return segments
}

// RotateSegment rotates both endpoints of s by angle radians about the
// segment's own midpoint.
func RotateSegment(s LineSegment, angle float64) LineSegment {
	cx, cy := s.Midpoint()
	sin, cos := math.Sincos(angle)
	rotate := func(x, y float64) (float64, float64) {
		return cos*(x-cx) - sin*(y-cy) + cx, sin*(x-cx) + cos*(y-cy) + cy
	}
	x1, y1 := rotate(s.X1, s.Y1)
	x2, y2 := rotate(s.X2, s.Y2)
	return LineSegment{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RotateAll applies the same rotation to every segment and returns a new slice
func RotateAll(segments []LineSegment, angle float64) []LineSegment {
	rotated := make([]LineSegment, len(segments))
	for i, s := range segments {
		rotated[i] = RotateSegment(s, angle)
	}
	return rotated
}

// AngleForDirection converts a compass wind direction in degrees to the
// rotation angle applied to the base segments.
func AngleForDirection(degrees float64) float64 {
	return (360 - degrees) * math.Pi / 180
}
