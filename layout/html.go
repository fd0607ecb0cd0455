package layout

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AppendHTML renders a simple HTML fragment through the engine. Headings,
// paragraphs and lists map onto blocks; inline markup flattens to its text
// content.
func (e *Engine) AppendHTML(source string) error {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return err
	}
	e.walkHTML(doc)
	return nil
}

func (e *Engine) walkHTML(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1:
			e.AddHeading(1, extractText(n))
			return
		case atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			e.AddHeading(2, extractText(n))
			return
		case atom.P:
			e.AddParagraph(extractText(n))
			return
		case atom.Ul:
			e.AddBulletList(listTexts(n))
			return
		case atom.Ol:
			e.AddNumberedList(listTexts(n))
			return
		case atom.Hr:
			e.AddSpace(e.cfg.SectionSpacing)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walkHTML(c)
	}
}

func listTexts(list *html.Node) []string {
	var items []string
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			items = append(items, extractText(c))
		}
	}
	return items
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(sb.String())
}
