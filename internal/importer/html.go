package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// HTMLParser reads browser bookmark exports in the Netscape format. Each
// <H3> becomes a folder holding the <DL> that follows it, at any depth.
// Anchors on ordinary pages are imported as a flat list of links.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]dashboard.Item, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	start := findBody(doc)
	if start == nil {
		start = doc
	}
	c := &collector{consumed: map[*html.Node]bool{}}
	return sanitize(c.collect(start)), nil
}

type collector struct {
	// Folder lists already attached to their <H3>.
	consumed map[*html.Node]bool
}

func (c *collector) collect(n *html.Node) []dashboard.Item {
	var out []dashboard.Item
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode {
			continue
		}
		switch ch.Data {
		case "script", "style", "head":
		case "a":
			out = append(out, dashboard.Item{
				Title: textContent(ch),
				Type:  dashboard.TypeLink,
				URL:   attr(ch, "href"),
			})
		case "h3":
			folder := dashboard.Item{Title: textContent(ch), Type: dashboard.TypeFolder}
			if dl := folderList(ch); dl != nil {
				c.consumed[dl] = true
				folder.Items = c.collect(dl)
			}
			out = append(out, folder)
		default:
			if c.consumed[ch] {
				continue
			}
			out = append(out, c.collect(ch)...)
		}
	}
	return out
}

// folderList finds the <DL> holding a folder's entries. The HTML parser
// usually nests it inside the folder's <DT>; some exporters close the <DT>
// first and leave the list as its next sibling.
func folderList(h3 *html.Node) *html.Node {
	if dl := nextElement(h3); dl != nil && dl.Data == "dl" {
		return dl
	}
	if p := h3.Parent; p != nil && p.Data == "dt" {
		if dl := nextElement(p); dl != nil && dl.Data == "dl" {
			return dl
		}
	}
	return nil
}

// nextElement skips text and the stray <p> tags bookmark exports contain.
func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode || (s.Data == "p" && s.FirstChild == nil) {
			continue
		}
		return s
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
