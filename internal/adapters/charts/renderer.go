package charts

import (
	"context"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// FilePrefix is the leading part of every chart file name.
const FilePrefix = "optimization"

var (
	categoryColors = map[domain.LocationCategory]color.Color{
		domain.CategoryDepot:    rgb(0xFF, 0xCC, 0x99),
		domain.CategoryPickup:   rgb(0xCC, 0xFF, 0xCC),
		domain.CategoryDelivery: rgb(0xCC, 0xCC, 0xFF),
	}
	activityColors = map[string]color.Color{
		domain.ActivityPickup:   rgb(0x90, 0xEE, 0x90),
		domain.ActivityDelivery: rgb(0xAD, 0xD8, 0xE6),
		domain.ActivityDepot:    rgb(0xFF, 0xCC, 0x99),
	}
	otherActivityColor = rgb(0xCC, 0xCC, 0xCC)
	storageAreaColor   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xE0, A: 0x4D}
	loadingAreaColor   = color.RGBA{R: 0xE0, G: 0xFF, B: 0xFF, A: 0x4D}
	black              = color.Black
	gray               = rgb(0x80, 0x80, 0x80)
	noticeColor        = rgb(0xFF, 0x00, 0x00)
)

// Renderer draws PNG charts with gonum/plot. It implements
// ports.ChartRenderer.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 14 * vg.Inch, Height: 8 * vg.Inch}
}

// GanttFile and NetworkFile name the chart files for a timestamp.
func GanttFile(timestamp string) string {
	return fmt.Sprintf("%s_%s_gantt.png", FilePrefix, timestamp)
}

func NetworkFile(timestamp string, forklift int) string {
	return fmt.Sprintf("%s_%s_network_forklift_%d.png", FilePrefix, timestamp, forklift)
}

// Render writes the Gantt chart and one route diagram per vehicle. Each
// chart is isolated: a failure is reported and the rest still render.
func (r *Renderer) Render(
	ctx context.Context,
	sol *domain.SolutionRecord,
	dir string,
	timestamp string,
) (*domain.ChartSet, []error) {
	var err error
	defer obs.Time(ctx, "charts.Render")(&err)

	set := &domain.ChartSet{
		Timestamp:    timestamp,
		Dir:          dir,
		NetworkPaths: map[string]string{},
	}
	if sol == nil {
		err = errors.New("render charts: solution is nil")
		return nil, []error{err}
	}

	var errs []error

	sched, schedErrs := BuildSchedule(sol)
	errs = append(errs, schedErrs...)
	ganttPath := filepath.Join(dir, GanttFile(timestamp))
	if gerr := isolate(func() error { return r.saveGantt(sched, ganttPath) }); gerr != nil {
		errs = append(errs, fmt.Errorf("gantt chart: %w", gerr))
	} else {
		set.GanttPath = ganttPath
	}

	for _, id := range sol.VehicleIDs() {
		v := sol.VehicleData[id]
		if len(v.Route) == 0 {
			continue
		}
		g, gerr := BuildRouteGraph(id, v)
		if errors.Is(gerr, errEmptyRoute) {
			continue
		}
		if gerr != nil {
			errs = append(errs, fmt.Errorf("route chart for %s: %w", forkliftLabel(id), gerr))
			continue
		}

		path := filepath.Join(dir, NetworkFile(timestamp, g.Forklift))
		if gerr := isolate(func() error { return r.saveNetwork(g, path) }); gerr != nil {
			errs = append(errs, fmt.Errorf("route chart for %s: %w", forkliftLabel(id), gerr))
			continue
		}
		set.NetworkPaths[id] = path
	}

	if len(errs) > 0 {
		err = errors.Join(errs...)
	}
	return set, errs
}

// isolate turns a plotting panic into an error so one chart cannot take
// down the batch.
func isolate(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while drawing: %v", p)
		}
	}()
	return fn()
}

func (r *Renderer) saveGantt(s Schedule, path string) error {
	p := plot.New()
	p.Title.Text = "Forklift Schedule"
	p.X.Label.Text = "Time"
	p.X.Min = 0
	p.X.Max = s.MaxTime * 1.1
	p.Y.Min = 0.5
	p.Y.Max = float64(len(s.Rows)) + 0.5
	if len(s.Rows) == 0 {
		p.Y.Max = 1.5
	}
	p.Add(plotter.NewGrid())

	ticks := make([]plot.Tick, 0, len(s.Rows))
	for i, row := range s.Rows {
		y := float64(len(s.Rows) - i)
		ticks = append(ticks, plot.Tick{Value: y, Label: row.Label})

		for _, b := range row.Bars {
			poly, err := plotter.NewPolygon(plotter.XYs{
				{X: b.Start, Y: y - 0.25},
				{X: b.End(), Y: y - 0.25},
				{X: b.End(), Y: y + 0.25},
				{X: b.Start, Y: y + 0.25},
			})
			if err != nil {
				return fmt.Errorf("%s bar: %w", row.Label, err)
			}
			poly.Color = activityColor(b.Activity)
			poly.LineStyle.Color = black
			poly.LineStyle.Width = vg.Points(0.5)
			p.Add(poly)

			if b.Duration > 1 {
				if err := addText(p, b.Start+b.Duration/2, y, b.Label); err != nil {
					return err
				}
			}
		}

		for _, gap := range row.Travel {
			line, err := plotter.NewLine(plotter.XYs{{X: gap.From, Y: y}, {X: gap.To, Y: y}})
			if err != nil {
				return fmt.Errorf("%s travel: %w", row.Label, err)
			}
			line.LineStyle.Color = black
			line.LineStyle.Width = vg.Points(1.5)
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(line)

			if d := gap.To - gap.From; d > 1 {
				if err := addText(p, gap.From+d/2, y+0.3, fmt.Sprintf("Travel: %.1f", d)); err != nil {
					return err
				}
			}
		}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	if !s.HasData() {
		if err := addText(p, s.MaxTime/2, (p.Y.Min+p.Y.Max)/2, "No valid schedule data available", noticeColor); err != nil {
			return err
		}
	}

	for _, activity := range []string{domain.ActivityPickup, domain.ActivityDelivery, domain.ActivityDepot} {
		swatch, err := plotter.NewPolygon(plotter.XYs{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0}})
		if err != nil {
			return err
		}
		swatch.Color = activityColor(activity)
		p.Legend.Add(activity, swatch)
	}
	p.Legend.Top = true

	if err := p.Save(r.Width, r.Height, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (r *Renderer) saveNetwork(g RouteGraph, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Forklift %d Route", g.Forklift)
	p.X.Min, p.X.Max = -4, 8
	p.Y.Min, p.Y.Max = -4, 4
	p.HideAxes()

	if err := addArea(p, -1, 1, 8, 2, storageAreaColor, "Storage Area", 3, 3.2); err != nil {
		return err
	}
	if err := addArea(p, -1, -3, 8, 2, loadingAreaColor, "Loading Area", 3, -3.2); err != nil {
		return err
	}

	for _, e := range g.Edges() {
		a, b := g.Nodes[e[0]].Position, g.Nodes[e[1]].Position
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return fmt.Errorf("edge %d->%d: %w", e[0], e[1], err)
		}
		line.LineStyle.Color = gray
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}

	byCategory := map[domain.LocationCategory]plotter.XYs{}
	labels := plotter.XYLabels{}
	for _, n := range g.Nodes {
		byCategory[n.Category] = append(byCategory[n.Category], plotter.XY{X: n.Position.X, Y: n.Position.Y})
		labels.XYs = append(labels.XYs, plotter.XY{X: n.Position.X, Y: n.Position.Y - 0.45})
		labels.Labels = append(labels.Labels, n.Label)
	}

	for _, c := range []struct {
		cat  domain.LocationCategory
		name string
	}{
		{domain.CategoryDepot, "Depot"},
		{domain.CategoryPickup, "Storage Location"},
		{domain.CategoryDelivery, "Truck Location"},
	} {
		pts, ok := byCategory[c.cat]
		if !ok {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("%s nodes: %w", c.name, err)
		}
		sc.GlyphStyle.Color = categoryColors[c.cat]
		sc.GlyphStyle.Radius = vg.Points(14)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)

		ring, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("%s nodes: %w", c.name, err)
		}
		ring.GlyphStyle.Color = black
		ring.GlyphStyle.Radius = vg.Points(14)
		ring.GlyphStyle.Shape = draw.RingGlyph{}
		p.Add(ring)

		p.Legend.Add(c.name, sc)
	}

	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("node labels: %w", err)
	}
	p.Add(lbl)

	p.Legend.Left = false
	p.Legend.Top = false

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

func addArea(p *plot.Plot, x, y, w, h float64, fill color.Color, title string, tx, ty float64) error {
	poly, err := plotter.NewPolygon(plotter.XYs{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", title, err)
	}
	poly.Color = fill
	poly.LineStyle.Width = 0
	p.Add(poly)
	return addText(p, tx, ty, title)
}

// addText places a single label at (x, y), optionally in a given color.
func addText(p *plot.Plot, x, y float64, s string, c ...color.Color) error {
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{s},
	})
	if err != nil {
		return fmt.Errorf("label %q: %w", s, err)
	}
	if len(c) > 0 {
		for i := range l.TextStyle {
			l.TextStyle[i].Color = c[0]
		}
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = -0.5
		l.TextStyle[i].YAlign = -0.5
	}
	p.Add(l)
	return nil
}

func activityColor(activity string) color.Color {
	if c, ok := activityColors[activity]; ok {
		return c
	}
	return otherActivityColor
}

func rgb(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
