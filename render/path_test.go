package render

import (
	"math"
	"testing"

	"windflow/geometry"
)

func TestBuildPathCurvatureFollowsSlope(t *testing.T) {
	tests := []struct {
		name    string
		seg     geometry.LineSegment
		wantCtl float64
	}{
		{"rising", geometry.LineSegment{X1: 0, Y1: 0, X2: 100, Y2: 100}, 50 + 70},
		{"falling", geometry.LineSegment{X1: 0, Y1: 100, X2: 100, Y2: 0}, 50 + 30},
		{"flat", geometry.LineSegment{X1: 400, Y1: 100, X2: 800, Y2: 100}, 100 + 30},
		{"vertical", geometry.LineSegment{X1: 10, Y1: 0, X2: 10, Y2: 200}, 100 + 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPath(tt.seg, DefaultCurvature)
			cx, _ := tt.seg.Midpoint()
			if p.ControlX != cx {
				t.Errorf("control x = %v, want %v", p.ControlX, cx)
			}
			if p.ControlY != tt.wantCtl {
				t.Errorf("control y = %v, want %v", p.ControlY, tt.wantCtl)
			}
		})
	}
}

func TestPathD(t *testing.T) {
	p := BuildPath(geometry.LineSegment{X1: 400, Y1: 100, X2: 800, Y2: 100}, DefaultCurvature)
	if got, want := p.D(), "M400,100 Q600,130 800,100"; got != want {
		t.Fatalf("D() = %q, want %q", got, want)
	}
}

func TestPathLengthOfStraightCurve(t *testing.T) {
	seg := geometry.LineSegment{X1: 0, Y1: 0, X2: 300, Y2: 400}
	p := BuildPath(seg, Curvature{})
	if math.Abs(p.Length-500) > 1e-6 {
		t.Fatalf("length = %v, want 500", p.Length)
	}
}

func TestPathLengthExceedsChordWhenCurved(t *testing.T) {
	seg := geometry.LineSegment{X1: 400, Y1: 100, X2: 800, Y2: 100}
	p := BuildPath(seg, DefaultCurvature)
	if p.Length <= seg.Length() {
		t.Fatalf("curved length %v should exceed chord %v", p.Length, seg.Length())
	}
	// The quadratic arc with a 30 unit control offset over a 400 unit chord
	// is only slightly longer than the chord.
	if p.Length > seg.Length()*1.05 {
		t.Fatalf("curved length %v unexpectedly long", p.Length)
	}
}

func TestPointAtEndpoints(t *testing.T) {
	seg := geometry.LineSegment{X1: 1, Y1: 2, X2: 30, Y2: -4}
	p := BuildPath(seg, DefaultCurvature)
	if x, y := p.PointAt(0); x != seg.X1 || y != seg.Y1 {
		t.Errorf("PointAt(0) = (%v,%v)", x, y)
	}
	if x, y := p.PointAt(1); x != seg.X2 || y != seg.Y2 {
		t.Errorf("PointAt(1) = (%v,%v)", x, y)
	}
}
