package components_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/components"
	"github.com/rshade/insightdeck/internal/modules"
	"github.com/rshade/insightdeck/internal/registry"
	"github.com/rshade/insightdeck/internal/render"
)

func TestRegisterBuiltins(t *testing.T) {
	reg := registry.New()
	components.RegisterBuiltins(reg)

	assert.Equal(t, []string{
		components.KeyIndustryStack, components.KeyDefault, components.KeyInsight,
		components.KeyMetric, components.KeyTrend,
	}, reg.Keys())
}

func TestCardComponents(t *testing.T) {
	ctx := context.Background()

	t.Run("echo lists scalar fields", func(t *testing.T) {
		n, err := components.Echo(ctx, map[string]any{"id": "c1", "componentName": "X", "data": map[string]any{"a": 1.0}})
		require.NoError(t, err)
		fields := n.Find(render.KindField)
		require.Len(t, fields, 1)
		assert.Equal(t, "a", fields[0].Attr(render.AttrLabel))
	})

	t.Run("trend shows value change and history", func(t *testing.T) {
		n, err := components.Trend(ctx, map[string]any{
			"type": "trend",
			"data": map[string]any{"title": "ARR", "value": 1234567.0, "delta": -2.5, "series": []any{1.0, 3.0, 2.0}},
		})
		require.NoError(t, err)
		text := n.PlainText()
		assert.Contains(t, text, "ARR")
		assert.Contains(t, text, "1,234,567")
		assert.Contains(t, text, "▼ -2.5%")
		assert.Len(t, n.Find(render.KindGraphic), 1)
	})

	t.Run("insight requires a summary", func(t *testing.T) {
		_, err := components.Insight(ctx, map[string]any{"title": "x"})
		assert.ErrorIs(t, err, components.ErrMissingProps)

		n, err := components.Insight(ctx, map[string]any{"title": "Heads up", "summary": "Costs rose"})
		require.NoError(t, err)
		assert.Equal(t, "Heads upCosts rose", n.PlainText())
	})

	t.Run("metric uses SI prefixes", func(t *testing.T) {
		n, err := components.Metric(ctx, map[string]any{"label": "Users", "value": 12000.0})
		require.NoError(t, err)
		assert.Equal(t, "12 k", n.Find(render.KindField)[0].Text)
	})

	t.Run("industry stack draws a legend", func(t *testing.T) {
		n, err := components.IndustryStack(ctx, map[string]any{
			"title": "Mix",
			"industries": []any{
				map[string]any{"name": "Energy", "share": 60.0},
				map[string]any{"name": "Retail", "share": 40.0},
			},
		})
		require.NoError(t, err)
		assert.Len(t, n.Find(render.KindListItem), 2)
		assert.Contains(t, n.PlainText(), "Energy 60")
	})
}

func TestCharts(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		chart string
		props map[string]any
		want  string
	}{
		{
			name:  "bar chart from labelled data",
			chart: components.ChartBar,
			props: map[string]any{"data": []any{
				map[string]any{"label": "a", "value": 2.0},
				map[string]any{"label": "bb", "value": 1.0},
			}},
			want: "a  │" + repeat("█", 30) + " 2",
		},
		{
			name:  "sparkline spans the glyph range",
			chart: components.ChartSparkline,
			props: map[string]any{"values": []any{0.0, 7.0}},
			want:  "▁█",
		},
		{
			name:  "pie chart shows shares",
			chart: components.ChartPie,
			props: map[string]any{"labels": []any{"x", "y"}, "values": []any{1.0, 3.0}},
			want:  "75.0%",
		},
		{
			name:  "heatmap shades extremes",
			chart: components.ChartHeatmap,
			props: map[string]any{"rows": []any{[]any{0.0, 1.0}}},
			want:  "  ██",
		},
		{
			name:  "line chart labels its range",
			chart: components.ChartLine,
			props: map[string]any{"values": []any{1.0, 5.0, 3.0}},
			want:  "5 ┤ •",
		},
	}

	charts := components.Charts()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := charts[tt.chart](ctx, tt.props)
			require.NoError(t, err)
			assert.Equal(t, render.KindGraphic, n.Kind)
			assert.Contains(t, n.Text, tt.want)
		})
	}

	for name, f := range charts {
		_, err := f(ctx, map[string]any{})
		assert.ErrorIs(t, err, components.ErrMissingProps, name)
	}
}

func TestChartsSkipNonFiniteValues(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		chart string
		props map[string]any
		want  string
	}{
		{
			name:  "sparkline",
			chart: components.ChartSparkline,
			props: map[string]any{"values": []any{0.0, "NaN", "Inf", math.Inf(-1), 7.0}},
			want:  "▁█",
		},
		{
			name:  "heatmap",
			chart: components.ChartHeatmap,
			props: map[string]any{"rows": []any{[]any{0.0, "-Inf", 1.0}}},
			want:  "  ██",
		},
		{
			name:  "line chart from labelled data",
			chart: components.ChartLine,
			props: map[string]any{"data": []any{
				map[string]any{"label": "a", "value": 1.0},
				map[string]any{"label": "b", "value": "NaN"},
				map[string]any{"label": "c", "value": 5.0},
			}},
			want: "5 ┤",
		},
	}

	charts := components.Charts()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := charts[tt.chart](ctx, tt.props)
			require.NoError(t, err)
			assert.Contains(t, n.Text, tt.want)
			assert.NotContains(t, n.Text, "NaN")
		})
	}

	_, err := components.Sparkline(ctx, map[string]any{"values": []any{"Inf", "NaN"}})
	assert.ErrorIs(t, err, components.ErrMissingProps)
}

func TestRegisterCharts(t *testing.T) {
	res, err := modules.NewResolver(modules.WithAPIConstraint("^1.0.0"))
	require.NoError(t, err)
	components.RegisterCharts(res)

	names := []string{
		components.ChartBar, components.ChartHeatmap, components.ChartLine,
		components.ChartPie, components.ChartSparkline,
	}
	assert.Equal(t, names, res.Names())
	require.NoError(t, res.Preload(context.Background(), names, 2))
	for _, n := range names {
		assert.Equal(t, modules.StateReady, res.State(n))
	}
}

func repeat(s string, n int) string {
	out := ""
	for range n {
		out += s
	}
	return out
}
