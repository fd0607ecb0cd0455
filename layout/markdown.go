package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AppendMarkdown routes a markdown string through the engine's block
// renderers. LLM-drafted content arrives as loose markdown; headings,
// paragraphs and lists map onto the corresponding blocks and everything
// else degrades to paragraph text.
func (e *Engine) AppendMarkdown(source string) error {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	e.walkMarkdown(doc, src)
	return nil
}

func (e *Engine) walkMarkdown(node ast.Node, source []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			level := 1
			if n.Level >= 2 {
				level = 2
			}
			e.AddHeading(level, string(n.Text(source)))
		case *ast.Paragraph:
			e.AddParagraph(paragraphText(n, source))
		case *ast.List:
			items := listItemTexts(n, source)
			if n.IsOrdered() {
				e.AddNumberedList(items)
			} else {
				e.AddBulletList(items)
			}
		case *ast.Blockquote:
			e.walkMarkdown(n, source)
		case *ast.ThematicBreak:
			e.AddSpace(e.cfg.SectionSpacing)
		default:
			if t := string(child.Text(source)); strings.TrimSpace(t) != "" {
				e.AddParagraph(t)
			}
		}
	}
}

func paragraphText(n *ast.Paragraph, source []byte) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.WriteString(string(child.Text(source)))
	}
	return sb.String()
}

func listItemTexts(list *ast.List, source []byte) []string {
	var items []string
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		item, ok := li.(*ast.ListItem)
		if !ok {
			continue
		}
		var sb strings.Builder
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Paragraph:
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(paragraphText(c, source))
			case *ast.List:
				// Nested lists flatten into the parent item.
				for _, nested := range listItemTexts(c, source) {
					if sb.Len() > 0 {
						sb.WriteString("; ")
					}
					sb.WriteString(nested)
				}
			default:
				sb.WriteString(string(child.Text(source)))
			}
		}
		items = append(items, sb.String())
	}
	return items
}
