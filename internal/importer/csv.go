package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// CSVParser reads spreadsheet exports with a header row. It needs a url
// column (url, link or href); title (or name) and folder are optional.
// Rows sharing a folder value are grouped where that folder first appears.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]dashboard.Item, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	urlCol, titleCol, folderCol := -1, -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "url", "link", "href":
			urlCol = i
		case "title", "name":
			titleCol = i
		case "folder", "group":
			folderCol = i
		}
	}
	if urlCol < 0 {
		return nil, fmt.Errorf("parse csv: no url column in header %q", strings.Join(records[0], ","))
	}

	var out []dashboard.Item
	folders := map[string]int{}
	for _, row := range records[1:] {
		it := dashboard.Item{
			Type:  dashboard.TypeLink,
			URL:   cell(row, urlCol),
			Title: cell(row, titleCol),
		}
		folder := cell(row, folderCol)
		if folder == "" {
			out = append(out, it)
			continue
		}
		idx, ok := folders[folder]
		if !ok {
			idx = len(out)
			folders[folder] = idx
			out = append(out, dashboard.Item{Title: folder, Type: dashboard.TypeFolder})
		}
		out[idx].Items = append(out[idx].Items, it)
	}
	return sanitize(out), nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
