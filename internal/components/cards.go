// Package components holds the built-in card components and chart modules.
package components

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rshade/insightdeck/internal/registry"
	"github.com/rshade/insightdeck/internal/render"
)

// Built-in component keys.
const (
	KeyDefault       = "default"
	KeyTrend         = "trend"
	KeyInsight       = "insight"
	KeyMetric        = "metric"
	KeyIndustryStack = "IndustryStackCard"
)

// ErrMissingProps is returned when a component lacks the props it needs.
var ErrMissingProps = errors.New("missing required props")

// RegisterBuiltins seeds reg with the built-in card components.
func RegisterBuiltins(reg *registry.Registry) {
	reg.Register(KeyDefault, Echo)
	reg.Register(KeyTrend, Trend)
	reg.Register(KeyInsight, Insight)
	reg.Register(KeyMetric, Metric)
	reg.Register(KeyIndustryStack, IndustryStack)
}

func field(label, value string) *render.Node {
	return (&render.Node{Kind: render.KindField, Text: value}).With(render.AttrLabel, label)
}

func title(s string) *render.Node {
	if s == "" {
		return nil
	}
	return render.El(render.KindTitle, render.Text(s))
}

// Echo renders every scalar field of its props.
func Echo(_ context.Context, props map[string]any) (*render.Node, error) {
	data := payload(props)
	card := render.El(render.KindCard, title(str(data, "title", "name", "id")))
	for _, k := range sortedKeys(data) {
		switch data[k].(type) {
		case map[string]any, []any, nil:
			continue
		}
		card.Append(field(k, fmt.Sprint(data[k])))
	}
	return card, nil
}

// Trend renders a value with its change and an optional sparkline of its
// history.
func Trend(_ context.Context, props map[string]any) (*render.Node, error) {
	data := payload(props)
	card := render.El(render.KindCard, title(str(data, "title", "name")))
	if v, ok := num(data["value"]); ok {
		card.Append(field("value", humanize.Commaf(v)))
	}
	if d, ok := num(data["delta"]); ok {
		arrow := "▲"
		if d < 0 {
			arrow = "▼"
		}
		card.Append(field("change", fmt.Sprintf("%s %.1f%%", arrow, d)))
	}
	if series := numbers(data["series"]); len(series) > 0 {
		card.Append(&render.Node{Kind: render.KindGraphic, Text: sparkline(series)})
	}
	return card, nil
}

// Insight renders a short headline with its summary text.
func Insight(_ context.Context, props map[string]any) (*render.Node, error) {
	data := payload(props)
	body := str(data, "summary", "text", "description")
	if body == "" {
		return nil, fmt.Errorf("%w: insight card has no summary", ErrMissingProps)
	}
	card := render.El(render.KindCard, title(str(data, "title", "headline")))
	card.Append(render.El(render.KindParagraph, render.Text(body)))
	if source := str(data, "source"); source != "" {
		card.Append(render.El(render.KindCaption, render.Text(source)))
	}
	return card, nil
}

// Metric renders a single large number with an optional unit.
func Metric(_ context.Context, props map[string]any) (*render.Node, error) {
	data := payload(props)
	v, ok := num(data["value"])
	if !ok {
		return nil, fmt.Errorf("%w: metric card has no numeric value", ErrMissingProps)
	}
	value := humanize.SIWithDigits(v, 1, str(data, "unit"))
	return render.El(render.KindCard,
		title(str(data, "title", "label", "name")),
		field("value", strings.TrimSpace(value)),
	), nil
}

// IndustryStack renders industry shares as one stacked bar with a legend.
// It expects an unwrapped payload: {"title", "industries": [{"name", "share"}]}.
func IndustryStack(_ context.Context, props map[string]any) (*render.Node, error) {
	items, _ := props["industries"].([]any)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: industry stack has no industries", ErrMissingProps)
	}

	const width = 40
	shades := []rune("█▓▒░")
	var bar strings.Builder
	card := render.El(render.KindCard, title(str(props, "title")))
	legend := render.El(render.KindList)
	total := 0.0
	for _, it := range items {
		rec, _ := it.(map[string]any)
		share, _ := num(rec["share"])
		total += share
	}
	for i, it := range items {
		rec, _ := it.(map[string]any)
		share, _ := num(rec["share"])
		shade := string(shades[i%len(shades)])
		if total > 0 {
			bar.WriteString(strings.Repeat(shade, int(share/total*width+0.5)))
		}
		legend.Append(render.El(render.KindListItem,
			render.Text(fmt.Sprintf("%s %s %s", shade, str(rec, "name"), humanize.FtoaWithDigits(share, 1)))))
	}
	card.Append(&render.Node{Kind: render.KindGraphic, Text: bar.String()}, legend)
	return card, nil
}
