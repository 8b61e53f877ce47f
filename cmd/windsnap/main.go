// Command windsnap fetches the wind forecast from a running windflow server
// and writes the streamlines for one forecast hour as an animated SVG.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"windflow/animation"
	"windflow/cursor"
	"windflow/geometry"
	"windflow/render"
	"windflow/viewer"
)

func main() {
	baseURL := flag.String("server", "http://localhost:8080", "windflow server base URL")
	output := flag.String("o", "wind.svg", "Output file, - for stdout")
	offset := flag.Int("hour", 0, "Hours to advance past the sample nearest to now")
	lines := flag.Int("lines", 7, "Number of streamlines")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	series, err := viewer.NewClient(*baseURL, time.Local).FetchWindSeries(ctx)
	if err != nil {
		slog.Error("error fetching wind data", "server", *baseURL, "error", err)
		os.Exit(1)
	}

	c := cursor.New()
	if err := c.Replace(series, time.Now()); err != nil {
		slog.Error("no wind data", "error", err)
		os.Exit(1)
	}
	sample, _ := c.Current()
	for i := 0; i < *offset; i++ {
		if sample, err = c.Advance(); err != nil {
			slog.Error("failed to advance", "error", err)
			os.Exit(1)
		}
	}

	opts := viewer.DefaultOptions()
	surface := render.NewSurface(opts.Width, opts.Height)
	// One reveal is enough for a still; the SVG animates itself.
	loop := animation.NewLoop(surface, oneShot{}, opts.Animation)
	loop.SetSpeed(sample.WindSpeed)
	renderer := render.NewRenderer(surface, opts.Curvature, loop)

	base := geometry.GenerateBaseSegments(opts.Width, opts.Height, *lines, opts.Inset)
	renderer.Render(geometry.RotateAll(base, geometry.AngleForDirection(sample.WindDirection)))

	d := viewer.FormatDisplay(sample, time.Local)
	slog.Info("rendering forecast",
		"time", d.ForecastTime,
		"speed", d.WindSpeed,
		"direction", d.WindDirection,
		"cardinal", d.Cardinal,
		"cycle", loop.CycleDuration(),
	)

	if err := writeScene(*output, surface.Snapshot(time.Now())); err != nil {
		slog.Error("failed to write scene", "error", err)
		os.Exit(1)
	}
}

// oneShot never fires, leaving each streamline at the start of its reveal
type oneShot struct{}

func (oneShot) Schedule(time.Duration, func()) func() { return func() {} }

func writeScene(path string, snap render.Snapshot) error {
	if path == "-" {
		return render.WriteSVG(os.Stdout, snap)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WriteSVG(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
