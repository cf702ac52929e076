package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/factline/factline/internal/model"
)

// skippedElements never contribute visible text
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
}

// blockElements become one source item each
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Li:         true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Figcaption: true,
}

// headingLevel maps heading elements to their depth, 1-based
var headingLevel = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3,
	atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// Itemize parses an HTML body into source items. Each paragraph-level
// block becomes one item carrying the section path of the headings above
// it. HTML has no pagination, so items carry page -1.
func Itemize(body string) ([]model.SourceItem, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := &itemBuilder{headings: make([]string, 6)}
	b.walk(doc)
	return b.items, nil
}

type itemBuilder struct {
	items    []model.SourceItem
	headings []string // current heading text per level, 1-based at index 0..5
	seq      int
}

func (b *itemBuilder) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if skippedElements[n.DataAtom] {
			return
		}
		if level, ok := headingLevel[n.DataAtom]; ok {
			text := visibleText(n)
			b.headings[level-1] = text
			for i := level; i < 6; i++ {
				b.headings[i] = ""
			}
			if text != "" {
				b.add(text)
			}
			return
		}
		if blockElements[n.DataAtom] {
			if text := visibleText(n); text != "" {
				b.add(text)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *itemBuilder) add(text string) {
	b.seq++
	b.items = append(b.items, model.SourceItem{
		ID:          fmt.Sprintf("item_%04d", b.seq),
		Text:        text,
		Page:        -1,
		SectionPath: b.sectionPath(),
	})
}

func (b *itemBuilder) sectionPath() string {
	var parts []string
	for _, h := range b.headings {
		if h != "" {
			parts = append(parts, h)
		}
	}
	return strings.Join(parts, " > ")
}

// visibleText collects the text content of a subtree, normalizing inner
// whitespace runs to single spaces
func visibleText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && skippedElements[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
