package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/startpage/internal/dashboard"
	"github.com/dgallion1/startpage/internal/importer"
	"github.com/dgallion1/startpage/internal/pipeline"
)

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxImportBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	sectionID := r.FormValue("section")
	if sectionID == "" {
		sectionID = dashboard.FavoritesID
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !importer.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxImportBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxImportBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxImportBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	if _, ok := doc.Section(sectionID); !ok {
		jsonError(w, fmt.Sprintf("unknown section %q", sectionID), http.StatusBadRequest)
		return
	}

	items, err := importer.ParseFile(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, n, err := s.store.ImportItems(r.Context(), sectionID, items)
	if err != nil {
		s.log.Error("import items", "file", filename, "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	s.resolver.Sync(doc)

	resp := map[string]any{
		"imported": n,
		"section":  sectionID,
		"sections": viewSections(doc, false),
	}
	if n > 0 {
		resp["notice"] = s.orchestrator.Notices().Post(pipeline.NoticeSuccess, fmt.Sprintf("Imported %d items", n))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = importer.FormatJSON
	}
	if format == "yml" {
		format = importer.FormatYAML
	}

	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := importer.Export(&buf, doc, format); err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("export document", "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", importer.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="startpage.%s"`, format))
	w.Write(buf.Bytes())
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
