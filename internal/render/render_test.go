package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/render"
)

func sampleTree() *render.Node {
	return render.Fragment(
		render.El(render.KindMarkdown,
			render.El(render.KindHeading, render.Text("Title")).With(render.AttrLevel, "2"),
			render.El(render.KindParagraph,
				render.Text("plain "),
				render.El(render.KindStrong, render.Text("bold")),
				render.Text(" and "),
				render.El(render.KindLink, render.Text("docs")).
					With(render.AttrHref, "https://example.com").
					With(render.AttrTarget, "_blank"),
			),
		),
		render.Notice("component not found: Nope"),
		&render.Node{Kind: render.KindFallback, Text: "content unavailable"},
	)
}

func TestNodeHelpers(t *testing.T) {
	tree := sampleTree()

	assert.Len(t, tree.Find(render.KindStrong), 1)
	assert.Contains(t, tree.PlainText(), "plain bold and docs")

	depths := map[render.Kind]int{}
	tree.Walk(func(n *render.Node, d int) bool {
		depths[n.Kind] = d
		return true
	})
	assert.Equal(t, 0, depths[render.KindFragment])
	assert.Equal(t, 3, depths[render.KindStrong])

	n := render.El(render.KindCard, nil, render.Text("x"), nil)
	assert.Len(t, n.Children, 1, "nil children are dropped")
}

func TestOutcomeAbsorb(t *testing.T) {
	var parent render.Outcome
	parent.Absorb(render.Outcome{Pending: []string{"BarChart"}})
	parent.Absorb(render.Outcome{Pending: []string{"BarChart", "LineChart"}})
	parent.Absorb(render.Fail(assert.AnError))

	assert.Equal(t, []string{"BarChart", "LineChart"}, parent.Pending)
	assert.Len(t, parent.Reported, 1)
	assert.False(t, parent.Failed())
}

func TestToMarkdown(t *testing.T) {
	md := render.ToMarkdown(sampleTree().Children[0])
	assert.Contains(t, md, "## Title")
	assert.Contains(t, md, "**bold**")
	assert.Contains(t, md, "[docs](https://example.com)")

	t.Run("escapes text and strips control characters", func(t *testing.T) {
		n := render.El(render.KindParagraph, render.Text("*not bold*\x1b[31m"))
		out := render.ToMarkdown(n)
		assert.Contains(t, out, `\*not bold\*`)
		assert.NotContains(t, out, "\x1b")
	})

	t.Run("lists and tables", func(t *testing.T) {
		list := render.El(render.KindList,
			render.El(render.KindListItem, render.Text("one")),
			render.El(render.KindListItem, render.Text("two")),
		).With(render.AttrOrdered, "true")
		table := render.El(render.KindTable,
			render.El(render.KindTableRow, render.El(render.KindTableCell, render.Text("h"))),
			render.El(render.KindTableRow, render.El(render.KindTableCell, render.Text("v"))),
		)
		out := render.ToMarkdown(render.Fragment(list, table))
		assert.Contains(t, out, "1. one\n2. two")
		assert.Contains(t, out, "| h |\n| --- |\n| v |")
	})
}

func TestHTML(t *testing.T) {
	out, err := render.HTML(sampleTree())
	require.NoError(t, err)

	assert.Contains(t, out, "<h2>Title</h2>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `<a href="https://example.com" target="_blank">docs</a>`)
	assert.Contains(t, out, `<div class="notice" role="status">component not found: Nope</div>`)
	assert.Contains(t, out, `<span class="fallback">content unavailable</span>`)
}

func TestHTMLEscapesText(t *testing.T) {
	out, err := render.HTML(render.Text("<script>alert(1)</script>"))
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestHTMLRawMarkup(t *testing.T) {
	raw := &render.Node{Kind: render.KindRawMarkup, Text: `<svg viewBox="0 0 1 1"><circle r="1"></circle></svg>`}
	out, err := render.HTML(raw)
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "<circle")
}

func TestTextPrinter(t *testing.T) {
	p := render.NewTextPrinter(60, render.StyleNoTTY)
	out := p.Print(sampleTree())

	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "component not found: Nope")
	assert.Contains(t, out, "content unavailable")
}

func TestTextPrinterRankedList(t *testing.T) {
	list := render.El(render.KindRankedList,
		(&render.Node{Kind: render.KindRankedItem, Text: "Acme"}).With(render.AttrRank, "1").With(render.AttrValue, "1,200"),
		(&render.Node{Kind: render.KindRankedItem, Text: "Globex"}).With(render.AttrRank, "2").With(render.AttrValue, "900"),
	)
	out := render.NewTextPrinter(60, render.StyleNoTTY).Print(list)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Acme")
	assert.Contains(t, lines[1], "Globex")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteJSON(&buf, render.Notice("hi")))
	assert.JSONEq(t, `{"kind":"notice","text":"hi"}`, buf.String())
}
