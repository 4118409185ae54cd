package render

import "strings"

// Kind identifies what a Node represents.
type Kind string

// Node kinds.
const (
	KindFragment  Kind = "fragment"
	KindText      Kind = "text"
	KindStrong    Kind = "strong"
	KindEmphasis  Kind = "emphasis"
	KindStrike    Kind = "strike"
	KindCode      Kind = "code"
	KindBreak     Kind = "break"
	KindRule      Kind = "rule"
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindList      Kind = "list"
	KindListItem  Kind = "list_item"
	KindTable     Kind = "table"
	KindTableRow  Kind = "table_row"
	KindTableCell Kind = "table_cell"
	KindCodeBlock Kind = "code_block"
	KindQuote     Kind = "quote"
	KindLink      Kind = "link"
	KindImage     Kind = "image"
	KindVideo     Kind = "video"
	KindMedia     Kind = "media"
	KindCaption   Kind = "caption"
	KindMarkdown  Kind = "markdown"
	KindRawMarkup Kind = "raw_markup"

	KindComponent   Kind = "component"
	KindCard        Kind = "card"
	KindTitle       Kind = "title"
	KindSubtitle    Kind = "subtitle"
	KindChart       Kind = "chart"
	KindGraphic     Kind = "graphic"
	KindField       Kind = "field"
	KindRankedList  Kind = "ranked_list"
	KindRankedItem  Kind = "ranked_item"
	KindPlaceholder Kind = "placeholder"
	KindNotice      Kind = "notice"
	KindFallback    Kind = "fallback"
	KindTruncated   Kind = "truncated"
)

// Common attribute names.
const (
	AttrHref       = "href"
	AttrTarget     = "target"
	AttrRel        = "rel"
	AttrSrc        = "src"
	AttrAlt        = "alt"
	AttrPoster     = "poster"
	AttrLevel      = "level"
	AttrOrdered    = "ordered"
	AttrHeader     = "header"
	AttrLanguage   = "language"
	AttrComponent  = "component"
	AttrModule     = "module"
	AttrTransition = "transition"
	AttrLabel      = "label"
	AttrColor      = "color"
	AttrRank       = "rank"
	AttrValue      = "value"
	AttrCategory   = "category"
	AttrBordered   = "bordered"
)

// Node is one element of a render tree.
type Node struct {
	Kind     Kind              `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Text returns a text leaf.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// El returns an element with the given children. Nil children are dropped.
func El(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	n.Append(children...)
	return n
}

// Fragment groups nodes without adding structure.
func Fragment(children ...*Node) *Node {
	return El(KindFragment, children...)
}

// Notice returns an inline notice.
func Notice(msg string) *Node {
	return &Node{Kind: KindNotice, Text: msg}
}

// Placeholder returns a compact loading placeholder for a pending module.
func Placeholder(module string) *Node {
	return &Node{Kind: KindPlaceholder, Text: "loading " + module + "…", Attrs: map[string]string{AttrModule: module}}
}

// With sets an attribute and returns n for chaining.
func (n *Node) With(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Attr returns the attribute value or "".
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[key]
}

// Append adds non-nil children.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// PlainText concatenates all text in the subtree.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.Walk(func(x *Node, _ int) bool {
		b.WriteString(x.Text)
		return true
	})
	return b.String()
}

// Walk visits n and its descendants depth first. depth is 0 for n. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	var visit func(*Node, int)
	visit = func(x *Node, d int) {
		if x == nil || !fn(x, d) {
			return
		}
		for _, c := range x.Children {
			visit(c, d+1)
		}
	}
	visit(n, 0)
}

// Find returns every node in the subtree of the given kind.
func (n *Node) Find(kind Kind) []*Node {
	var out []*Node
	n.Walk(func(x *Node, _ int) bool {
		if x.Kind == kind {
			out = append(out, x)
		}
		return true
	})
	return out
}
