package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// YAMLParser reads either a bare list of items or a full exported
// document. Sections are flattened in order.
type YAMLParser struct{}

func (p *YAMLParser) Parse(r io.Reader, filename string) ([]dashboard.Item, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.SequenceNode:
		var items []dashboard.Item
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		return sanitize(items), nil
	case yaml.MappingNode:
		var doc dashboard.Document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return sanitize(flatten(doc)), nil
	default:
		return nil, fmt.Errorf("parse yaml: expected a list of items or a document")
	}
}

// JSONParser accepts the same shapes as YAMLParser.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) ([]dashboard.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []dashboard.Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		return sanitize(items), nil
	case '{':
		var doc dashboard.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return sanitize(flatten(doc)), nil
	default:
		return nil, fmt.Errorf("parse json: expected a list of items or a document")
	}
}

func flatten(doc dashboard.Document) []dashboard.Item {
	var out []dashboard.Item
	for _, s := range doc.Sections {
		out = append(out, s.Items...)
	}
	return out
}
