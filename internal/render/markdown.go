package render

import (
	"strconv"
	"strings"
)

// ToMarkdown serialises an element subtree back to markdown. Text is escaped
// and stripped of control characters, so the output is safe to hand to a
// terminal markdown renderer.
func ToMarkdown(n *Node) string {
	var b strings.Builder
	writeMarkdownBlock(&b, n, "")
	return strings.TrimSpace(b.String()) + "\n"
}

func writeMarkdownBlock(b *strings.Builder, n *Node, indent string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindMarkdown, KindFragment, KindComponent:
		for _, c := range n.Children {
			writeMarkdownBlock(b, c, indent)
		}
	case KindParagraph:
		b.WriteString(indent + inlineMarkdown(n.Children) + "\n\n")
	case KindHeading:
		level, err := strconv.Atoi(n.Attr(AttrLevel))
		if err != nil || level < 1 || level > 6 {
			level = 1
		}
		b.WriteString(strings.Repeat("#", level) + " " + inlineMarkdown(n.Children) + "\n\n")
	case KindList:
		ordered := n.Attr(AttrOrdered) == "true"
		for i, item := range n.Children {
			marker := "- "
			if ordered {
				marker = strconv.Itoa(i+1) + ". "
			}
			writeListItem(b, item, indent, marker)
		}
		b.WriteString("\n")
	case KindCodeBlock:
		b.WriteString("```" + n.Attr(AttrLanguage) + "\n" + stripControl(n.Text) + "\n```\n\n")
	case KindQuote:
		var inner strings.Builder
		for _, c := range n.Children {
			writeMarkdownBlock(&inner, c, "")
		}
		for _, line := range strings.Split(strings.TrimSpace(inner.String()), "\n") {
			b.WriteString(indent + "> " + line + "\n")
		}
		b.WriteString("\n")
	case KindTable:
		writeTable(b, n)
	case KindRule:
		b.WriteString("---\n\n")
	case KindMedia:
		for _, c := range n.Children {
			writeMarkdownBlock(b, c, indent)
		}
	case KindImage:
		b.WriteString(indent + "![" + escapeMarkdown(n.Attr(AttrAlt)) + "](" + escapeURL(n.Attr(AttrSrc)) + ")\n\n")
	case KindVideo:
		b.WriteString(indent + "▶ " + escapeURL(n.Attr(AttrSrc)) + "\n\n")
	case KindCaption:
		b.WriteString(indent + "*" + escapeMarkdown(n.PlainText()) + "*\n\n")
	default:
		if line := inlineMarkdown([]*Node{n}); strings.TrimSpace(line) != "" {
			b.WriteString(indent + line + "\n\n")
		}
	}
}

func writeListItem(b *strings.Builder, item *Node, indent, marker string) {
	var inline []*Node
	var nested []*Node
	for _, c := range item.Children {
		switch c.Kind {
		case KindList:
			nested = append(nested, c)
		case KindParagraph:
			inline = append(inline, c.Children...)
		default:
			inline = append(inline, c)
		}
	}
	b.WriteString(indent + marker + inlineMarkdown(inline) + "\n")
	for _, l := range nested {
		var sub strings.Builder
		writeMarkdownBlock(&sub, l, indent+"  ")
		b.WriteString(strings.TrimRight(sub.String(), "\n") + "\n")
	}
}

func writeTable(b *strings.Builder, table *Node) {
	rows := table.Find(KindTableRow)
	if len(rows) == 0 {
		return
	}
	for i, row := range rows {
		cells := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			cells = append(cells, strings.ReplaceAll(inlineMarkdown(cell.Children), "|", `\|`))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 {
			seps := make([]string, len(cells))
			for j := range seps {
				seps[j] = "---"
			}
			b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		}
	}
	b.WriteString("\n")
}

func inlineMarkdown(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			b.WriteString(escapeMarkdown(n.Text))
		case KindStrong:
			b.WriteString("**" + inlineMarkdown(n.Children) + "**")
		case KindEmphasis:
			b.WriteString("*" + inlineMarkdown(n.Children) + "*")
		case KindStrike:
			b.WriteString("~~" + inlineMarkdown(n.Children) + "~~")
		case KindCode:
			b.WriteString("`" + strings.ReplaceAll(stripControl(n.PlainText()), "`", "'") + "`")
		case KindLink:
			b.WriteString("[" + inlineMarkdown(n.Children) + "](" + escapeURL(n.Attr(AttrHref)) + ")")
		case KindBreak:
			b.WriteString("  \n")
		case KindImage:
			b.WriteString("![" + escapeMarkdown(n.Attr(AttrAlt)) + "](" + escapeURL(n.Attr(AttrSrc)) + ")")
		default:
			if n.Text != "" {
				b.WriteString(escapeMarkdown(n.Text))
			}
			b.WriteString(inlineMarkdown(n.Children))
		}
	}
	return b.String()
}

//nolint:gochecknoglobals // Immutable replacer.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `#`, `\#`, `|`, `\|`, `~`, `\~`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(stripControl(s))
}

func escapeURL(s string) string {
	s = stripControl(s)
	return strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29").Replace(s)
}

// stripControl removes C0 control characters other than newline and tab.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
