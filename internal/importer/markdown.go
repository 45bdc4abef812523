package importer

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// MarkdownParser reads link lists. Each heading opens a folder nested by
// heading level; links, autolinks and bare urls become link items in the
// innermost open folder.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]dashboard.Item, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Linkify))
	doc := md.Parser().Parse(text.NewReader(src))

	type stackEntry struct {
		item  *dashboard.Item
		level int
	}
	// Only the innermost folder's Items grows, so the pointers held by the
	// stack stay valid.
	root := &dashboard.Item{Type: dashboard.TypeFolder}
	stack := []stackEntry{{item: root, level: 0}}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].item
			parent.Items = append(parent.Items, dashboard.Item{
				Title: string(h.Text(src)),
				Type:  dashboard.TypeFolder,
			})
			stack = append(stack, stackEntry{item: &parent.Items[len(parent.Items)-1], level: h.Level})
			continue
		}

		top := stack[len(stack)-1].item
		top.Items = append(top.Items, markdownLinks(n, src)...)
	}

	return sanitize(root.Items), nil
}

func markdownLinks(n ast.Node, src []byte) []dashboard.Item {
	var out []dashboard.Item
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch l := c.(type) {
		case *ast.Link:
			out = append(out, dashboard.Item{
				Title: string(l.Text(src)),
				Type:  dashboard.TypeLink,
				URL:   string(l.Destination),
			})
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			if l.AutoLinkType != ast.AutoLinkURL {
				return ast.WalkSkipChildren, nil
			}
			u := string(l.URL(src))
			out = append(out, dashboard.Item{Title: string(l.Label(src)), Type: dashboard.TypeLink, URL: u})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}
