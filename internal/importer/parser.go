// Package importer turns bookmark files into dashboard items and encodes
// the dashboard for export.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/startpage/internal/dashboard"
)

var ErrUnsupportedFormat = errors.New("unsupported import format")

// Parser converts a bookmark file into items ready for import. Returned
// items have valid links, no actions and no empty folders. Ids are kept
// when the source has them and left empty otherwise.
type Parser interface {
	Parse(r io.Reader, filename string) ([]dashboard.Item, error)
}

// SupportedExtensions lists file extensions that can be imported.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".yaml":     true,
	".yml":      true,
	".json":     true,
	".csv":      true,
	".txt":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".yaml", ".yml":
		return &YAMLParser{}, nil
	case ".json":
		return &JSONParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ParseFile picks a parser by extension and runs it.
func ParseFile(r io.Reader, filename string) ([]dashboard.Item, error) {
	p, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	items, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
	}
	return items, nil
}
