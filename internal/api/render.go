package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dgallion1/startpage/internal/dashboard"
)

const maxBodyBytes = 1 << 20

// itemView is an item as the UI renders it, with its favicon resolved.
type itemView struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Type      dashboard.ItemType `json:"type"`
	URL       string             `json:"url,omitempty"`
	Favicon   string             `json:"favicon,omitempty"`
	Action    dashboard.Action   `json:"action,omitempty"`
	IconType  string             `json:"iconType,omitempty"`
	IconValue string             `json:"iconValue,omitempty"`
	Items     []itemView         `json:"items,omitempty"`
}

type sectionView struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Hidden bool       `json:"hidden"`
	Items  []itemView `json:"items"`
}

func viewItems(items []dashboard.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, viewItem(it))
	}
	return out
}

func viewItem(it dashboard.Item) itemView {
	v := itemView{
		ID:        it.ID,
		Title:     it.Title,
		Type:      it.Type,
		URL:       it.URL,
		Action:    it.Action,
		IconType:  it.IconType,
		IconValue: it.IconValue,
	}
	if it.Type == dashboard.TypeLink {
		v.Favicon = dashboard.FaviconURL(it.URL)
	}
	if it.IsFolder() {
		v.Items = viewItems(it.Items)
	}
	return v
}

func viewSections(doc dashboard.Document, visibleOnly bool) []sectionView {
	sections := doc.Sections
	if visibleOnly {
		sections = doc.VisibleSections()
	}
	out := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		out = append(out, sectionView{
			ID:     s.ID,
			Title:  s.Title,
			Hidden: s.Hidden,
			Items:  viewItems(s.Items),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// decodeBody reads a JSON request body into v. An empty body leaves v
// untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
