package render

import (
	"math"
	"strconv"
	"strings"

	"windflow/geometry"
)

// lengthSteps is the number of chords used to approximate a curve's length
const lengthSteps = 64

// Curvature controls how far a path's control point sits from the segment midpoint.
// Rising segments are pushed Base+Bias units down the y axis, all others Base-Bias,
// so up-flowing and down-flowing strands bend differently.
type Curvature struct {
	Base float64 `json:"base"`
	Bias float64 `json:"bias"`
}

// DefaultCurvature is the bend used by the visualization
var DefaultCurvature = Curvature{Base: 50, Bias: 20}

// Offset returns the vertical control point offset for seg
func (c Curvature) Offset(seg geometry.LineSegment) float64 {
	if seg.Rising() {
		return c.Base + c.Bias
	}
	return c.Base - c.Bias
}

// Path is a quadratic curve from a segment's first endpoint to its second
type Path struct {
	Segment  geometry.LineSegment
	ControlX float64
	ControlY float64
	Length   float64 // total rendered length
}

// BuildPath turns a rotated segment into a curved path
func BuildPath(seg geometry.LineSegment, c Curvature) Path {
	cx, cy := seg.Midpoint()
	p := Path{
		Segment:  seg,
		ControlX: cx,
		ControlY: cy + c.Offset(seg),
	}
	p.Length = p.measure()
	return p
}

// D returns the SVG path description, e.g. "M400,100 Q600,170 800,100"
func (p Path) D() string {
	var b strings.Builder
	b.WriteByte('M')
	writePoint(&b, p.Segment.X1, p.Segment.Y1)
	b.WriteString(" Q")
	writePoint(&b, p.ControlX, p.ControlY)
	b.WriteByte(' ')
	writePoint(&b, p.Segment.X2, p.Segment.Y2)
	return b.String()
}

// PointAt evaluates the curve at t in [0,1]
func (p Path) PointAt(t float64) (float64, float64) {
	u := 1 - t
	x := u*u*p.Segment.X1 + 2*u*t*p.ControlX + t*t*p.Segment.X2
	y := u*u*p.Segment.Y1 + 2*u*t*p.ControlY + t*t*p.Segment.Y2
	return x, y
}

func (p Path) measure() float64 {
	var total float64
	px, py := p.Segment.X1, p.Segment.Y1
	for i := 1; i <= lengthSteps; i++ {
		x, y := p.PointAt(float64(i) / lengthSteps)
		total += math.Hypot(x-px, y-py)
		px, py = x, y
	}
	return total
}

func writePoint(b *strings.Builder, x, y float64) {
	b.WriteString(formatFloat(x))
	b.WriteByte(',')
	b.WriteString(formatFloat(y))
}

func formatFloat(v float64) string {
	// Rotation leaves tiny residues like 1e-13 that make the markup noisy.
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
