// Package render turns model replies into the two forms the chat view shows:
// a plain rendition revealed one character at a time, and the final HTML.
//
// Only a small markdown subset is understood: **bold**, bullet lists made of
// lines starting with "* " or "- ", and "##"/"###" headings. Everything else,
// nested lists and code blocks included, is kept as literal text.
package render

import (
	"html"
	"strings"
)

// NodeKind tags a parsed node.
type NodeKind uint8

const (
	NodeText NodeKind = iota
	NodeBold
	NodeList
	NodeHeading
	NodeBreak
)

// Node is one element of a parsed reply.
type Node struct {
	Kind NodeKind
	// Text holds the literal content of NodeText and NodeBold.
	Text string
	// Level is 3 for "##" and 4 for "###" headings.
	Level int
	// Inline holds the content of a heading.
	Inline []Node
	// Items holds the inline content of each list item.
	Items [][]Node
}

// Rendition carries both forms of a reply, computed once.
type Rendition struct {
	Plain string
	HTML  string
}

// Prepare computes the plain and HTML renditions of text.
func Prepare(text string) Rendition {
	return Rendition{Plain: Plain(text), HTML: Format(text)}
}

// Format renders the supported markdown subset to HTML.
func Format(text string) string {
	if text == "" {
		return ""
	}
	return HTML(Parse(text))
}

type lineKind uint8

const (
	lineText lineKind = iota
	lineItem
	lineHeading
)

// Parse splits text into nodes. Contiguous list lines collapse into one list;
// a line break is only emitted between two adjacent text lines.
func Parse(text string) []Node {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	nodes := make([]Node, 0, len(lines))

	prev := lineHeading
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		kind, content, level := classify(line)

		switch kind {
		case lineItem:
			items := [][]Node{parseInline(content)}
			for i+1 < len(lines) {
				nextKind, nextContent, _ := classify(lines[i+1])
				if nextKind != lineItem {
					break
				}
				items = append(items, parseInline(nextContent))
				i++
			}
			nodes = append(nodes, Node{Kind: NodeList, Items: items})
		case lineHeading:
			nodes = append(nodes, Node{Kind: NodeHeading, Level: level, Inline: parseInline(content)})
		default:
			if i > 0 && prev == lineText {
				nodes = append(nodes, Node{Kind: NodeBreak})
			}
			nodes = append(nodes, parseInline(line)...)
		}
		prev = kind
	}
	return nodes
}

func classify(line string) (lineKind, string, int) {
	switch {
	case strings.HasPrefix(line, "###"):
		return lineHeading, strings.TrimSpace(line[3:]), 4
	case strings.HasPrefix(line, "##"):
		return lineHeading, strings.TrimSpace(line[2:]), 3
	case isListItem(line):
		return lineItem, strings.TrimSpace(line[1:]), 0
	default:
		return lineText, line, 0
	}
}

// isListItem reports whether line starts with a "*" or "-" marker followed by whitespace.
// "**bold**" at the start of a line is not a list item.
func isListItem(line string) bool {
	if len(line) < 2 {
		return false
	}
	if line[0] != '*' && line[0] != '-' {
		return false
	}
	return line[1] == ' ' || line[1] == '\t'
}

// parseInline splits a line into text runs and non-greedy **bold** spans.
// An unmatched "**" stays literal.
func parseInline(line string) []Node {
	var nodes []Node
	for line != "" {
		start := strings.Index(line, "**")
		if start < 0 {
			break
		}
		end := strings.Index(line[start+2:], "**")
		if end < 0 {
			break
		}
		if start > 0 {
			nodes = append(nodes, Node{Kind: NodeText, Text: line[:start]})
		}
		nodes = append(nodes, Node{Kind: NodeBold, Text: line[start+2 : start+2+end]})
		line = line[start+2+end+2:]
	}
	if line != "" {
		nodes = append(nodes, Node{Kind: NodeText, Text: line})
	}
	return nodes
}

// HTML renders parsed nodes. Literal text is escaped.
func HTML(nodes []Node) string {
	var b strings.Builder
	writeNodes(&b, nodes)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Kind {
		case NodeText:
			b.WriteString(html.EscapeString(n.Text))
		case NodeBold:
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(n.Text))
			b.WriteString("</strong>")
		case NodeBreak:
			b.WriteString("<br>")
		case NodeHeading:
			tag := "h3"
			if n.Level == 4 {
				tag = "h4"
			}
			b.WriteString("<" + tag + "><strong>")
			writeNodes(b, n.Inline)
			b.WriteString("</strong></" + tag + ">")
		case NodeList:
			b.WriteString("<ul>")
			for _, item := range n.Items {
				b.WriteString("<li>")
				writeNodes(b, item)
				b.WriteString("</li>")
			}
			b.WriteString("</ul>")
		}
	}
}
