package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Glamour style names accepted by NewTextPrinter besides "auto".
const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
)

// TextPrinter renders a tree for a terminal. Markdown subtrees go through
// glamour; everything else is laid out with lipgloss.
type TextPrinter struct {
	width int

	mu sync.Mutex
	md *glamour.TermRenderer
}

// NewTextPrinter creates a printer wrapping at width columns. style is a
// glamour standard style name or "auto". If glamour cannot be initialised the
// printer falls back to plain lipgloss output for markdown.
func NewTextPrinter(width int, style string) *TextPrinter {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		md = nil
	}
	return &TextPrinter{width: width, md: md}
}

// Print renders n as terminal text.
func (p *TextPrinter) Print(n *Node) string {
	return strings.TrimRight(p.block(n), "\n")
}

//nolint:gocyclo,cyclop // One case per node kind.
func (p *TextPrinter) block(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindFragment, KindComponent:
		return p.joinBlocks(n.Children)
	case KindMarkdown:
		return p.markdown(n)
	case KindRawMarkup:
		return SubtleStyle.Render("[embedded graphic]")
	case KindCard:
		return BoxStyle.Width(p.innerWidth()).Render(p.joinBlocks(n.Children))
	case KindTitle:
		return HeaderStyle.Render(n.PlainText())
	case KindSubtitle, KindCaption, KindPlaceholder, KindTruncated:
		return SubtleStyle.Render(n.PlainText())
	case KindChart:
		return p.joinBlocks(n.Children)
	case KindGraphic:
		return n.Text
	case KindField:
		return LabelStyle.Render(n.Attr(AttrLabel)+": ") + ValueStyle.Render(n.Text)
	case KindRankedList:
		return p.rankedList(n)
	case KindMedia:
		return MediaStyle.Render(p.joinBlocks(n.Children))
	case KindImage:
		label := n.Attr(AttrAlt)
		if label == "" {
			label = "image"
		}
		return "🖼  " + label + " " + SubtleStyle.Render("("+n.Attr(AttrSrc)+")")
	case KindVideo:
		return "▶  " + n.Attr(AttrSrc)
	case KindNotice:
		return WarningStyle.Render("⚠ " + n.Text)
	case KindFallback:
		return ChipStyle.Render(n.Text)
	case KindList:
		return p.list(n)
	case KindParagraph, KindHeading, KindQuote, KindCodeBlock, KindTable, KindRule:
		return p.plainMarkdown(n)
	default:
		return p.inline(n)
	}
}

func (p *TextPrinter) joinBlocks(children []*Node) string {
	parts := make([]string, 0, len(children))
	for _, c := range children {
		if s := p.block(c); s != "" {
			parts = append(parts, s)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (p *TextPrinter) markdown(n *Node) string {
	src := ToMarkdown(n)
	if p.md != nil {
		p.mu.Lock()
		out, err := p.md.Render(src)
		p.mu.Unlock()
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return strings.TrimSpace(src)
}

func (p *TextPrinter) plainMarkdown(n *Node) string {
	return strings.TrimSpace(ToMarkdown(n))
}

func (p *TextPrinter) list(n *Node) string {
	lines := make([]string, 0, len(n.Children))
	for _, item := range n.Children {
		lines = append(lines, "• "+p.inline(item))
	}
	return strings.Join(lines, "\n")
}

func (p *TextPrinter) rankedList(n *Node) string {
	lines := make([]string, 0, len(n.Children))
	for _, item := range n.Children {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(item.Attr(AttrColor))).Render(item.Text)
		line := LabelStyle.Render(item.Attr(AttrRank)+". ") + name + "  " + ValueStyle.Render(item.Attr(AttrValue))
		if cat := item.Attr(AttrCategory); cat != "" {
			line += " " + SubtleStyle.Render(cat)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (p *TextPrinter) inline(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindText:
		return n.Text
	case KindStrong:
		return lipgloss.NewStyle().Bold(true).Render(p.inlineChildren(n))
	case KindEmphasis:
		return lipgloss.NewStyle().Italic(true).Render(p.inlineChildren(n))
	case KindStrike:
		return lipgloss.NewStyle().Strikethrough(true).Render(p.inlineChildren(n))
	case KindCode:
		return InfoStyle.Render(n.PlainText())
	case KindLink:
		return p.inlineChildren(n) + " " + SubtleStyle.Render("<"+n.Attr(AttrHref)+">")
	case KindBreak:
		return "\n"
	default:
		return n.Text + p.inlineChildren(n)
	}
}

func (p *TextPrinter) inlineChildren(n *Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(p.inline(c))
	}
	return b.String()
}

func (p *TextPrinter) innerWidth() int {
	const borderAndPadding = 4
	if p.width <= borderAndPadding {
		return p.width
	}
	return p.width - borderAndPadding
}
