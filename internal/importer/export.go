package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes the document in the named format. Both formats import
// back through ForFile.
func Export(w io.Writer, doc dashboard.Document, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return EncodeJSON(w, doc)
	case FormatYAML, "yml":
		return EncodeYAML(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func EncodeJSON(w io.Writer, doc dashboard.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func EncodeYAML(w io.Writer, doc dashboard.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return "application/yaml"
	default:
		return "application/json"
	}
}
