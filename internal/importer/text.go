package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// TextParser reads plain url lists, one link per line with an optional
// title after the url. A paragraph whose first line holds no url is a
// folder named by that line. Lines starting with # are comments.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]dashboard.Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs [][]string
	var current []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var out []dashboard.Item
	for _, para := range paragraphs {
		if _, ok := textLink(para[0]); ok {
			for _, line := range para {
				if it, ok := textLink(line); ok {
					out = append(out, it)
				}
			}
			continue
		}
		folder := dashboard.Item{Title: para[0], Type: dashboard.TypeFolder}
		for _, line := range para[1:] {
			if it, ok := textLink(line); ok {
				folder.Items = append(folder.Items, it)
			}
		}
		out = append(out, folder)
	}
	return sanitize(out), nil
}

// textLink splits "url [title]" or "title url" into a link item.
func textLink(line string) (dashboard.Item, bool) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if dashboard.ValidateURL(f) != nil {
			continue
		}
		rest := append(append([]string{}, fields[:i]...), fields[i+1:]...)
		return dashboard.Item{
			Title: strings.Join(rest, " "),
			Type:  dashboard.TypeLink,
			URL:   f,
		}, true
	}
	return dashboard.Item{}, false
}
