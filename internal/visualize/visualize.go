// Package visualize renders assessment history and snapshots as PNG charts.
package visualize

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

// ErrNoData reports that a chart has nothing to plot.
var ErrNoData = errors.New("no assessment data to plot")

var (
	lineColor = color.NRGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff}

	// Band fills, bottom of the scale to the top.
	zoneColors = []color.NRGBA{
		{R: 0x2e, G: 0xcc, B: 0x71, A: 0x20},
		{R: 0xf3, G: 0x9c, B: 0x12, A: 0x20},
		{R: 0xe6, G: 0x7e, B: 0x22, A: 0x20},
		{R: 0xe7, G: 0x4c, B: 0x3c, A: 0x20},
		{R: 0xc0, G: 0x39, B: 0x2b, A: 0x20},
	}
	zoneBounds = []struct{ lo, hi float64 }{
		{0, 10}, {10, 30}, {30, 70}, {70, 90}, {90, 100},
	}
)

// Visualizer writes charts into a single output directory.
type Visualizer struct {
	outDir string
}

func New(outDir string) *Visualizer {
	return &Visualizer{outDir: outDir}
}

// Timeline plots one topic's probability history over time and returns the
// path of the written PNG.
func (v *Visualizer) Timeline(key string, topic schema.Topic, entries []schema.HistoryEntry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("%s: %w", key, ErrNoData)
	}

	pts := make(plotter.XYs, len(entries))
	for i, e := range entries {
		t, err := schema.ParseDate(e.Date)
		if err != nil {
			return "", fmt.Errorf("history entry %d for %s: %w", i, key, err)
		}
		pts[i].X = float64(t.Unix())
		pts[i].Y = float64(e.Probability)
	}

	p := plot.New()
	p.Title.Text = "Probability Assessment Timeline: " + topic.Title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Probability (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.X.Tick.Marker = plot.TimeTicks{Format: schema.DateFormat}

	if err := addZones(p, pts[0].X, pts[len(pts)-1].X); err != nil {
		return "", err
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return "", fmt.Errorf("build timeline series: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = lineColor
	points.Radius = vg.Points(3)
	p.Add(line, points)
	p.Legend.Add("Probability Assessment", line)
	p.Legend.Top = true

	return v.save(p, key+"_timeline.png", 12, 6)
}

// Snapshot plots every assessed topic's current probability as a bar chart.
// Bars are colored by probability band.
func (v *Visualizer) Snapshot(d *store.Data, now time.Time) (string, error) {
	var keys []string
	for _, key := range d.SortedKeys() {
		if a, ok := d.Assessments[key]; ok && a.Assessed() {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "", ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Current Probability Assessments (" + schema.FormatDate(now) + ")"
	p.Y.Label.Text = "Probability (%)"
	p.Y.Min, p.Y.Max = 0, 105

	labels := make([]string, len(keys))
	for i, key := range keys {
		labels[i] = d.Assessments[key].Title
	}

	// One chart per band so bars can carry band colors. Topics outside a
	// band contribute zero-height bars to keep the X positions aligned.
	for zone := range zoneBounds {
		vals := make(plotter.Values, len(keys))
		for i, key := range keys {
			prob := float64(*d.Assessments[key].CurrentProbability)
			if zoneIndex(prob) == zone {
				vals[i] = prob
			}
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(24))
		if err != nil {
			return "", fmt.Errorf("build snapshot bars: %w", err)
		}
		c := zoneColors[zone]
		c.A = 0xb4
		bars.Color = c
		p.Add(bars)
	}
	p.NominalX(labels...)

	return v.save(p, "current_snapshot.png", 12, 6)
}

// Comparison plots every topic with history on one chart, one line each.
func (v *Visualizer) Comparison(d *store.Data) (string, error) {
	p := plot.New()
	p.Title.Text = "All Assessments Comparison"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Probability (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.X.Tick.Marker = plot.TimeTicks{Format: schema.DateFormat}
	p.Legend.Top = true

	plotted := 0
	for i, key := range d.SortedKeys() {
		entries := d.History[key]
		if len(entries) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(entries))
		for j, e := range entries {
			t, err := schema.ParseDate(e.Date)
			if err != nil {
				return "", fmt.Errorf("history entry %d for %s: %w", j, key, err)
			}
			pts[j].X = float64(t.Unix())
			pts[j].Y = float64(e.Probability)
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return "", fmt.Errorf("build comparison series for %s: %w", key, err)
		}
		line.Color = plotutilColor(i)
		line.Width = vg.Points(1.5)
		points.Color = line.Color
		points.Radius = vg.Points(2)
		p.Add(line, points)
		p.Legend.Add(d.Topics[key].Title, line)
		plotted++
	}
	if plotted == 0 {
		return "", ErrNoData
	}

	return v.save(p, "all_topics_comparison.png", 14, 8)
}

// All renders the snapshot, the comparison, and a timeline per topic with
// history. Topics without data are skipped rather than treated as errors.
func (v *Visualizer) All(d *store.Data, now time.Time) ([]string, error) {
	var files []string

	for _, key := range d.SortedKeys() {
		if len(d.History[key]) == 0 {
			continue
		}
		f, err := v.Timeline(key, d.Topics[key], d.History[key])
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	for _, fn := range []func() (string, error){
		func() (string, error) { return v.Snapshot(d, now) },
		func() (string, error) { return v.Comparison(d) },
	} {
		f, err := fn()
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, ErrNoData
	}
	return files, nil
}

func (v *Visualizer) save(p *plot.Plot, name string, w, h float64) (string, error) {
	if err := os.MkdirAll(v.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(v.outDir, name)
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, path); err != nil {
		return "", fmt.Errorf("write chart %s: %w", name, err)
	}
	return path, nil
}

// addZones shades the probability bands behind a time-series plot.
func addZones(p *plot.Plot, xmin, xmax float64) error {
	if xmin == xmax {
		xmax = xmin + 1
	}
	for i, b := range zoneBounds {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: xmin, Y: b.lo},
			{X: xmax, Y: b.lo},
			{X: xmax, Y: b.hi},
			{X: xmin, Y: b.hi},
		})
		if err != nil {
			return fmt.Errorf("build zone shading: %w", err)
		}
		poly.Color = zoneColors[i]
		poly.LineStyle.Width = 0
		p.Add(poly)
	}
	return nil
}

func zoneIndex(prob float64) int {
	for i, b := range zoneBounds {
		if prob < b.hi {
			return i
		}
	}
	return len(zoneBounds) - 1
}

// plotutilColor cycles a small palette for comparison lines.
func plotutilColor(i int) color.NRGBA {
	palette := []color.NRGBA{
		{R: 0x2e, G: 0x86, B: 0xab, A: 0xff},
		{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
		{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
		{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
		{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
		{R: 0x16, G: 0xa0, B: 0x85, A: 0xff},
	}
	return palette[i%len(palette)]
}
