package components

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rshade/insightdeck/internal/modules"
	"github.com/rshade/insightdeck/internal/registry"
	"github.com/rshade/insightdeck/internal/render"
)

// ChartAPIVersion is the component API the built-in chart modules target.
const ChartAPIVersion = "1.2.0"

// Chart module names.
const (
	ChartBar       = "BarChart"
	ChartLine      = "LineChart"
	ChartPie       = "PieChart"
	ChartSparkline = "Sparkline"
	ChartHeatmap   = "HeatmapChart"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Charts returns the built-in chart components by module name.
func Charts() map[string]registry.Factory {
	return map[string]registry.Factory{
		ChartBar:       BarChart,
		ChartLine:      LineChart,
		ChartPie:       PieChart,
		ChartSparkline: Sparkline,
		ChartHeatmap:   Heatmap,
	}
}

// RegisterCharts adds a loader for every built-in chart to res.
func RegisterCharts(res *modules.Resolver) {
	for name, f := range Charts() {
		res.Register(name, func(ctx context.Context) (modules.Module, error) {
			if err := ctx.Err(); err != nil {
				return modules.Module{}, err
			}
			return modules.Module{Default: f, APIVersion: ChartAPIVersion}, nil
		})
	}
}

func graphic(lines ...string) *render.Node {
	return &render.Node{Kind: render.KindGraphic, Text: strings.Join(lines, "\n")}
}

// BarChart draws one horizontal bar per point.
func BarChart(_ context.Context, props map[string]any) (*render.Node, error) {
	pts := points(props)
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: bar chart has no data", ErrMissingProps)
	}
	const width = 30
	labelWidth, peak := 0, 0.0
	for _, p := range pts {
		labelWidth = max(labelWidth, len([]rune(p.Label)))
		peak = math.Max(peak, math.Abs(p.Value))
	}
	lines := make([]string, len(pts))
	for i, p := range pts {
		n := 0
		if peak > 0 {
			n = int(math.Abs(p.Value) / peak * width)
		}
		lines[i] = fmt.Sprintf("%-*s │%s %g", labelWidth, p.Label, strings.Repeat("█", n), p.Value)
	}
	return graphic(lines...), nil
}

// LineChart plots values on a small grid.
func LineChart(_ context.Context, props map[string]any) (*render.Node, error) {
	values := numbers(props["values"])
	if len(values) == 0 {
		for _, p := range points(props) {
			values = append(values, p.Value)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: line chart has no data", ErrMissingProps)
	}

	const height = 6
	lo, hi := bounds(values)
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(values)))
	}
	for c, v := range values {
		r := 0
		if hi > lo {
			r = int((v - lo) / (hi - lo) * (height - 1))
		}
		grid[height-1-r][c] = '•'
	}
	lines := make([]string, 0, height+1)
	for r, row := range grid {
		axis := "      "
		switch r {
		case 0:
			axis = fmt.Sprintf("%6.4g", hi)
		case height - 1:
			axis = fmt.Sprintf("%6.4g", lo)
		}
		lines = append(lines, axis+" ┤"+string(row))
	}
	return graphic(lines...), nil
}

// PieChart lists each slice with its share of the total.
func PieChart(_ context.Context, props map[string]any) (*render.Node, error) {
	pts := points(props)
	total := 0.0
	for _, p := range pts {
		total += p.Value
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: pie chart has no positive data", ErrMissingProps)
	}
	lines := make([]string, len(pts))
	for i, p := range pts {
		share := p.Value / total
		lines[i] = fmt.Sprintf("%-10s %5.1f%% %s", p.Label, share*100, strings.Repeat("●", int(share*20+0.5)))
	}
	return graphic(lines...), nil
}

// Sparkline draws values as a single line of block glyphs.
func Sparkline(_ context.Context, props map[string]any) (*render.Node, error) {
	values := numbers(props["values"])
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: sparkline has no values", ErrMissingProps)
	}
	return graphic(sparkline(values)), nil
}

// Heatmap shades a matrix of values.
func Heatmap(_ context.Context, props map[string]any) (*render.Node, error) {
	rows, _ := props["rows"].([]any)
	matrix := make([][]float64, 0, len(rows))
	var all []float64
	for _, r := range rows {
		vals := numbers(r)
		matrix = append(matrix, vals)
		all = append(all, vals...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: heatmap has no values", ErrMissingProps)
	}

	shades := []rune(" ░▒▓█")
	lo, hi := bounds(all)
	lines := make([]string, len(matrix))
	for i, vals := range matrix {
		var b strings.Builder
		for _, v := range vals {
			idx := 0
			if hi > lo {
				idx = int((v - lo) / (hi - lo) * float64(len(shades)-1))
			}
			b.WriteRune(shades[idx])
			b.WriteRune(shades[idx])
		}
		lines[i] = b.String()
	}
	return graphic(lines...), nil
}

func sparkline(values []float64) string {
	lo, hi := bounds(values)
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
