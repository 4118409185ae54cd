package content_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/content"
)

func TestParseDetail(t *testing.T) {
	t.Run("tabbed document", func(t *testing.T) {
		doc, err := content.ParseDetail([]byte(`{
			"tabs": [
				{"id": "a", "label": "Overview", "content": [{"type": "markdown", "content": "**Hi**"}]},
				{"id": "b", "label": "Charts", "content": [
					{"type": "chart", "component": "BarChart", "title": "Revenue", "props": {"unit": "USD"}}
				]}
			],
			"content": [{"type": "markdown", "content": "ignored"}]
		}`))
		require.NoError(t, err)
		require.True(t, doc.HasTabs())
		assert.Equal(t, 2, doc.TabCount())
		assert.Equal(t, content.MarkdownBlock{Content: "**Hi**"}, doc.Tabs[0].Content[0])

		chart, ok := doc.Tabs[1].Content[0].(content.ChartBlock)
		require.True(t, ok)
		assert.Equal(t, "BarChart", chart.Component)
		assert.Equal(t, "Revenue", chart.Title)
		assert.Equal(t, "USD", chart.Props["unit"])
	})

	t.Run("every block variant", func(t *testing.T) {
		doc, err := content.ParseDetail([]byte(`{"content": [
			{"type": "list", "listType": "companies", "title": "Top", "data": [{"name": "Acme", "value": 3}]},
			{"type": "image", "src": "a.png", "alt": "A", "caption": "cap"},
			{"type": "video", "src": "v.mp4", "poster": "p.png"},
			{"type": "card", "title": "Outer", "content": [{"type": "card", "content": []}]},
			{"type": "hologram", "beam": 1}
		]}`))
		require.NoError(t, err)
		require.Len(t, doc.Content, 5)

		list := doc.Content[0].(content.ListBlock)
		assert.Equal(t, content.ListTypeCompanies, list.ListType)
		assert.Equal(t, "Acme", list.Data[0]["name"])

		assert.Equal(t, content.ImageBlock{Src: "a.png", Alt: "A", Caption: "cap"}, doc.Content[1])
		assert.Equal(t, content.VideoBlock{Src: "v.mp4", Poster: "p.png"}, doc.Content[2])

		card := doc.Content[3].(content.CardBlock)
		assert.Equal(t, "Outer", card.Title)
		require.Len(t, card.Content, 1)
		assert.IsType(t, content.CardBlock{}, card.Content[0])

		unknown := doc.Content[4].(content.UnknownBlock)
		assert.Equal(t, content.BlockType("hologram"), unknown.Type())
		assert.InDelta(t, 1.0, unknown.Raw["beam"], 0)
	})

	t.Run("malformed block does not reject siblings", func(t *testing.T) {
		doc, err := content.ParseDetail([]byte(`{"content": [
			{"type": "markdown", "content": "first"},
			{"type": "markdown", "content": {"not": "a string"}},
			{"type": "markdown", "content": "third"}
		]}`))
		require.NoError(t, err)
		require.Len(t, doc.Content, 3)
		assert.Equal(t, content.MarkdownBlock{Content: "first"}, doc.Content[0])
		malformed, ok := doc.Content[1].(content.MalformedBlock)
		require.True(t, ok)
		assert.Error(t, malformed.Err)
		assert.Equal(t, content.MarkdownBlock{Content: "third"}, doc.Content[2])
	})

	t.Run("null document", func(t *testing.T) {
		doc, err := content.ParseDetail([]byte(" null "))
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := content.ParseDetail([]byte(`{"tabs": [`))
		assert.Error(t, err)
	})
}

func nestedCards(depth int) string {
	var b strings.Builder
	b.WriteString(`{"content": [`)
	for range depth {
		b.WriteString(`{"type": "card", "content": [`)
	}
	b.WriteString(`{"type": "markdown", "content": "leaf"}`)
	for range depth {
		b.WriteString(`]}`)
	}
	b.WriteString(`]}`)
	return b.String()
}

func TestParseDetailDeepNesting(t *testing.T) {
	const depth = 4000
	data := []byte(nestedCards(depth))

	start := time.Now()
	doc, err := content.ParseDetail(data)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Less(t, elapsed, 2*time.Second, "nested cards must decode in linear time")

	assert.Equal(t, depth, content.Depth(doc.Content))
	var leaf content.Block = doc.Content[0]
	for {
		card, ok := leaf.(content.CardBlock)
		if !ok {
			break
		}
		require.Len(t, card.Content, 1)
		leaf = card.Content[0]
	}
	assert.Equal(t, content.MarkdownBlock{Content: "leaf"}, leaf)
}

func TestParseDetailFieldTypes(t *testing.T) {
	doc, err := content.ParseDetail([]byte(`{"content": [
		{"type": "chart", "component": 7},
		{"type": "list", "data": [1, 2]},
		{"type": "card", "content": "not a list"},
		"not an object",
		{"type": "image", "src": "a.png"}
	]}`))
	require.NoError(t, err)
	require.Len(t, doc.Content, 5)
	for i := range 4 {
		malformed, ok := doc.Content[i].(content.MalformedBlock)
		require.True(t, ok, "block %d", i)
		assert.Error(t, malformed.Err)
	}
	assert.Equal(t, content.ImageBlock{Src: "a.png"}, doc.Content[4])

	_, err = content.ParseDetail([]byte(`{"tabs": "nope"}`))
	assert.Error(t, err)
	_, err = content.ParseDetail([]byte(`{"content": {"type": "markdown"}}`))
	assert.Error(t, err)
}

func TestParseDetailYAML(t *testing.T) {
	doc, err := content.ParseDetailYAML([]byte(`
tabs:
  - id: a
    label: Overview
    content:
      - type: markdown
        content: "# Title"
      - type: card
        title: Nested
        content:
          - type: image
            src: x.png
`))
	require.NoError(t, err)
	require.Equal(t, 1, doc.TabCount())
	require.Len(t, doc.Tabs[0].Content, 2)
	card := doc.Tabs[0].Content[1].(content.CardBlock)
	assert.Equal(t, content.ImageBlock{Src: "x.png"}, card.Content[0])
}

func TestParseCards(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		cards, err := content.ParseCards([]byte(`[
			{"id": "c1", "templateId": "t", "componentName": "IndustryStackCard", "data": {"x": 1}, "dataSource": "api"},
			{"id": "c2", "type": "trend", "direction": "up"}
		]`))
		require.NoError(t, err)
		require.Len(t, cards, 2)

		assert.Equal(t, "IndustryStackCard", cards[0].ComponentName)
		assert.True(t, cards[0].HasData())
		assert.Equal(t, content.DataSourceAPI, cards[0].DataSource)

		assert.Equal(t, "trend", cards[1].Type)
		assert.False(t, cards[1].HasData())
		assert.Equal(t, "up", cards[1].Raw()["direction"])
	})

	t.Run("wrapped object", func(t *testing.T) {
		cards, err := content.ParseCards([]byte(`{"cards": [{"id": "only"}]}`))
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "only", cards[0].ID)
	})

	t.Run("yaml deck", func(t *testing.T) {
		cards, err := content.DecodeCards(content.FormatYAML, []byte("- id: y1\n  type: insight\n"))
		require.NoError(t, err)
		assert.Equal(t, "insight", cards[0].Type)
	})
}

func TestCardInstanceRaw(t *testing.T) {
	card := content.CardInstance{ID: "c", ComponentName: "X", Data: map[string]any{"x": 1}}
	raw := card.Raw()
	assert.Equal(t, "c", raw["id"])
	assert.Equal(t, "X", raw["componentName"])
	assert.Equal(t, map[string]any{"x": 1}, raw["data"])
	assert.NotContains(t, raw, "type")
}

func TestChartComponentsAndDepth(t *testing.T) {
	blocks := []content.Block{
		content.ChartBlock{Component: "BarChart"},
		content.CardBlock{Content: content.Blocks{
			content.ChartBlock{Component: "LineChart"},
			content.CardBlock{Content: content.Blocks{content.ChartBlock{Component: "BarChart"}}},
		}},
	}
	assert.Equal(t, []string{"BarChart", "LineChart"}, content.ChartComponents(blocks))
	assert.Equal(t, 2, content.Depth(blocks))
	assert.Equal(t, 0, content.Depth(nil))
}

func TestFormatFromPath(t *testing.T) {
	f, err := content.FormatFromPath("details/a.YML")
	require.NoError(t, err)
	assert.Equal(t, content.FormatYAML, f)

	_, err = content.FormatFromPath("a.txt")
	assert.ErrorIs(t, err, content.ErrUnknownFormat)
}
