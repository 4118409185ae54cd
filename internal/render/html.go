package render

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML renders n as an HTML fragment.
func WriteHTML(w io.Writer, n *Node) error {
	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	root.Attr = []html.Attribute{{Key: "class", Val: "insightdeck"}}
	appendHTML(root, n)
	return html.Render(w, root)
}

// HTML renders n as an HTML string.
func HTML(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(tag string, attrs ...string) *html.Node {
	el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] != "" {
			el.Attr = append(el.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
		}
	}
	return el
}

func text(parent *html.Node, s string) {
	if s != "" {
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

//nolint:gocyclo,cyclop,funlen // One case per node kind.
func appendHTML(parent *html.Node, n *Node) {
	if n == nil {
		return
	}

	var el *html.Node
	switch n.Kind {
	case KindFragment:
		for _, c := range n.Children {
			appendHTML(parent, c)
		}
		return
	case KindText:
		text(parent, n.Text)
		return
	case KindRawMarkup:
		appendRaw(parent, n.Text)
		return
	case KindStrong:
		el = element("strong")
	case KindEmphasis:
		el = element("em")
	case KindStrike:
		el = element("del")
	case KindCode:
		el = element("code")
	case KindBreak:
		el = element("br")
	case KindRule:
		el = element("hr")
	case KindParagraph:
		el = element("p")
	case KindHeading:
		level := n.Attr(AttrLevel)
		if len(level) != 1 || level[0] < '1' || level[0] > '6' {
			level = "1"
		}
		el = element("h" + level)
	case KindList:
		tag := "ul"
		if n.Attr(AttrOrdered) == "true" {
			tag = "ol"
		}
		el = element(tag)
	case KindListItem:
		el = element("li")
	case KindTable:
		el = element("table")
	case KindTableRow:
		el = element("tr")
	case KindTableCell:
		tag := "td"
		if n.Attr(AttrHeader) == "true" {
			tag = "th"
		}
		el = element(tag)
	case KindCodeBlock:
		el = element("pre")
		code := element("code", "class", languageClass(n.Attr(AttrLanguage)))
		text(code, n.Text)
		el.AppendChild(code)
	case KindQuote:
		el = element("blockquote")
	case KindLink:
		el = element("a", "href", n.Attr(AttrHref), "target", n.Attr(AttrTarget), "rel", n.Attr(AttrRel))
	case KindImage:
		el = element("img", "src", n.Attr(AttrSrc), "alt", n.Attr(AttrAlt))
	case KindVideo:
		el = element("video", "src", n.Attr(AttrSrc), "poster", n.Attr(AttrPoster), "controls", "controls")
	case KindMedia:
		el = element("figure", "class", "media bordered")
	case KindCaption:
		el = element("figcaption")
	case KindMarkdown:
		el = element("div", "class", "markdown")
	case KindComponent:
		el = element("div", "class", "component",
			"data-component", n.Attr(AttrComponent), "data-transition", n.Attr(AttrTransition))
	case KindCard:
		el = element("section", "class", "card")
	case KindTitle:
		el = element("h3", "class", "title")
	case KindSubtitle:
		el = element("p", "class", "subtitle")
	case KindChart:
		el = element("figure", "class", "chart", "data-module", n.Attr(AttrModule))
	case KindGraphic:
		el = element("pre", "class", "graphic")
	case KindField:
		el = element("div", "class", "field")
		label := element("span", "class", "label")
		text(label, n.Attr(AttrLabel))
		el.AppendChild(label)
		value := element("span", "class", "value")
		text(value, n.Text)
		el.AppendChild(value)
		parent.AppendChild(el)
		return
	case KindRankedList:
		el = element("ol", "class", "ranked")
	case KindRankedItem:
		el = element("li", "data-rank", n.Attr(AttrRank), "data-value", n.Attr(AttrValue),
			"data-category", n.Attr(AttrCategory), "style", colorStyle(n.Attr(AttrColor)))
	case KindPlaceholder:
		el = element("span", "class", "placeholder", "aria-busy", "true", "data-module", n.Attr(AttrModule))
	case KindNotice:
		el = element("div", "class", "notice", "role", "status")
	case KindFallback:
		el = element("span", "class", "fallback")
	case KindTruncated:
		el = element("div", "class", "truncated")
	default:
		el = element("div", "class", string(n.Kind))
	}

	if n.Kind != KindCodeBlock {
		text(el, n.Text)
	}
	for _, c := range n.Children {
		appendHTML(el, c)
	}
	parent.AppendChild(el)
}

// appendRaw parses already sanitised markup and appends it.
func appendRaw(parent *html.Node, markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		text(parent, markup)
		return
	}
	for _, c := range nodes {
		parent.AppendChild(c)
	}
}

func languageClass(lang string) string {
	if lang == "" {
		return ""
	}
	return "language-" + lang
}

func colorStyle(color string) string {
	if color == "" || strings.ContainsAny(color, ";:\"'<>") {
		return ""
	}
	return "color: " + color
}
