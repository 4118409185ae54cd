package markdown

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rshade/insightdeck/internal/render"
)

// convertBlock maps a node in block context. Whitespace between blocks is
// dropped.
func convertBlock(n *html.Node) []*render.Node {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		return nil
	}
	return convert(n)
}

// convertInline maps a node in inline context. Whitespace is kept but line
// breaks inside it collapse to a single space.
func convertInline(n *html.Node) []*render.Node {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		if n.Data == "" {
			return nil
		}
		return []*render.Node{render.Text(" ")}
	}
	return convert(n)
}

func blockChildren(n *html.Node) []*render.Node {
	var out []*render.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, convertBlock(c)...)
	}
	return out
}

func inlineChildren(n *html.Node) []*render.Node {
	var out []*render.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, convertInline(c)...)
	}
	return out
}

//nolint:gocyclo,cyclop,funlen // One case per element.
func convert(n *html.Node) []*render.Node {
	switch n.Type {
	case html.TextNode:
		return []*render.Node{render.Text(n.Data)}
	case html.ElementNode:
	default:
		return nil
	}

	one := func(x *render.Node) []*render.Node { return []*render.Node{x} }

	switch n.DataAtom {
	case atom.P:
		children := inlineChildren(n)
		if allMedia(children) {
			return children
		}
		return one(render.El(render.KindParagraph, children...))
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := strconv.Itoa(int(n.Data[1] - '0'))
		return one(render.El(render.KindHeading, inlineChildren(n)...).With(render.AttrLevel, level))
	case atom.Ul, atom.Ol:
		list := render.El(render.KindList, blockChildren(n)...)
		if n.DataAtom == atom.Ol {
			list.With(render.AttrOrdered, "true")
		}
		return one(list)
	case atom.Li:
		return one(render.El(render.KindListItem, trimItem(inlineChildren(n))...))
	case atom.Table:
		return one(render.El(render.KindTable, blockChildren(n)...))
	case atom.Thead, atom.Tbody, atom.Tfoot:
		return blockChildren(n)
	case atom.Tr:
		return one(render.El(render.KindTableRow, blockChildren(n)...))
	case atom.Th:
		return one(render.El(render.KindTableCell, inlineChildren(n)...).With(render.AttrHeader, "true"))
	case atom.Td:
		return one(render.El(render.KindTableCell, inlineChildren(n)...))
	case atom.Pre:
		return one(codeBlock(n))
	case atom.Blockquote:
		return one(render.El(render.KindQuote, blockChildren(n)...))
	case atom.Hr:
		return one(render.El(render.KindRule))
	case atom.Br:
		return one(render.El(render.KindBreak))
	case atom.Strong, atom.B:
		return one(render.El(render.KindStrong, inlineChildren(n)...))
	case atom.Em, atom.I:
		return one(render.El(render.KindEmphasis, inlineChildren(n)...))
	case atom.Del, atom.S:
		return one(render.El(render.KindStrike, inlineChildren(n)...))
	case atom.Code:
		return one(&render.Node{Kind: render.KindCode, Text: textContent(n)})
	case atom.A:
		link := render.El(render.KindLink, inlineChildren(n)...).
			With(render.AttrHref, attr(n, "href")).
			With(render.AttrTarget, LinkTarget).
			With(render.AttrRel, LinkRel)
		return one(link)
	case atom.Img:
		img := render.El(render.KindImage).
			With(render.AttrSrc, attr(n, "src")).
			With(render.AttrAlt, attr(n, "alt"))
		return one(Media(img, ""))
	case atom.Video:
		video := render.El(render.KindVideo).With(render.AttrSrc, attr(n, "src"))
		if poster := attr(n, "poster"); poster != "" {
			video.With(render.AttrPoster, poster)
		}
		return one(Media(video, ""))
	default:
		// Containers such as div, span and sup contribute only their content.
		return inlineChildren(n)
	}
}

// Media wraps an image or video node, with an optional caption, in a bordered
// container.
func Media(element *render.Node, caption string) *render.Node {
	m := render.El(render.KindMedia, element).With(render.AttrBordered, "true")
	if caption != "" {
		m.Append(render.El(render.KindCaption, render.Text(caption)))
	}
	return m
}

func codeBlock(pre *html.Node) *render.Node {
	cb := &render.Node{Kind: render.KindCodeBlock, Text: strings.TrimSuffix(textContent(pre), "\n")}
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom != atom.Code {
			continue
		}
		for _, class := range strings.Fields(attr(c, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				cb.With(render.AttrLanguage, lang)
			}
		}
	}
	return cb
}

func allMedia(nodes []*render.Node) bool {
	found := false
	for _, n := range nodes {
		switch {
		case n.Kind == render.KindMedia:
			found = true
		case n.Kind == render.KindText && strings.TrimSpace(n.Text) == "":
		default:
			return false
		}
	}
	return found
}

// trimItem drops leading and trailing whitespace text in a list item.
func trimItem(nodes []*render.Node) []*render.Node {
	for len(nodes) > 0 && isBlank(nodes[0]) {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && isBlank(nodes[len(nodes)-1]) {
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

func isBlank(n *render.Node) bool {
	return n.Kind == render.KindText && strings.TrimSpace(n.Text) == ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
