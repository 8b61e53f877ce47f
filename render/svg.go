package render

import (
	"bufio"
	"fmt"
	"io"
)

// Stroke styling shared by every streamline
const (
	StrokeColor = "#3498db"
	StrokeWidth = 2
)

// WriteSVG writes snap as a standalone SVG document. Each path carries an
// <animate> element that repeats the dash offset reveal indefinitely, so the
// document animates on its own in a browser.
func WriteSVG(w io.Writer, snap Snapshot) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		formatFloat(snap.Width), formatFloat(snap.Height), formatFloat(snap.Width), formatFloat(snap.Height))
	bw.WriteString(`  <defs>
    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="10" refY="3.5" orient="auto">
      <polygon points="0 0, 10 3.5, 0 7" fill="` + StrokeColor + `"/>
    </marker>
  </defs>
`)

	for _, p := range snap.Paths {
		fmt.Fprintf(bw, `  <path id="%s" class="%s" d="%s" stroke="%s" stroke-width="%d" fill="none" marker-end="url(#arrowhead)" stroke-dasharray="%s" stroke-dashoffset="%s">`,
			p.ID, StreamlineClass, p.D, StrokeColor, StrokeWidth, formatFloat(p.DashArray), formatFloat(p.DashOffset))
		if p.DurationMS > 0 {
			fmt.Fprintf(bw, "\n"+`    <animate attributeName="stroke-dashoffset" from="%s" to="0" dur="%dms" repeatCount="indefinite"/>`+"\n  ",
				formatFloat(p.DashArray), p.DurationMS)
		}
		bw.WriteString("</path>\n")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}
