package api

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/startpage/internal/dashboard"
	"github.com/dgallion1/startpage/internal/gesture"
	"github.com/dgallion1/startpage/internal/pipeline"
)

const (
	noticeItemDeleted      = "Item deleted"
	noticeAddedToFavorites = "Added to Favorites"
)

type mutationResponse struct {
	Changed  bool             `json:"changed"`
	Notice   *pipeline.Notice `json:"notice,omitempty"`
	Sections []sectionView    `json:"sections"`
}

// respondMutation finishes every tree-changing handler: it maps storage
// failures to 500, keeps the folder view consistent with the new document
// and posts the notice when something changed.
func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, doc dashboard.Document, changed bool, err error, notice string) {
	if err != nil {
		s.log.Error("tree mutation failed", "path", r.URL.Path, "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	s.resolver.Sync(doc)

	resp := mutationResponse{Changed: changed, Sections: viewSections(doc, false)}
	if changed && notice != "" {
		n := s.orchestrator.Notices().Post(pipeline.NoticeSuccess, notice)
		resp.Notice = &n
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSections(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	visible := r.URL.Query().Get("visible") == "true"
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": viewSections(doc, visible),
	})
}

func (s *Server) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	doc, changed, err := s.store.ToggleSectionVisibility(r.Context(), sectionID)
	s.respondMutation(w, r, doc, changed, err, "")
}

type favoriteRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	IconType  string `json:"iconType"`
	IconValue string `json:"iconValue"`
}

func (s *Server) handleSaveFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	it := dashboard.Item{
		ID:        strings.TrimSpace(req.ID),
		Title:     strings.TrimSpace(req.Title),
		Type:      dashboard.TypeLink,
		URL:       strings.TrimSpace(req.URL),
		IconType:  req.IconType,
		IconValue: req.IconValue,
	}
	if it.ID == "" {
		it.ID = dashboard.NewID(string(dashboard.TypeLink))
	}
	if err := dashboard.ValidateItem(it); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, changed, err := s.store.SaveItemToFavorites(r.Context(), it)
	s.respondMutation(w, r, doc, changed, err, noticeAddedToFavorites)
}

type currentPageRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (s *Server) handleAddCurrent(w http.ResponseWriter, r *http.Request) {
	var req currentPageRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if err := dashboard.ValidateURL(req.URL); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, changed, err := s.store.AddCurrentPage(r.Context(), req.URL, req.Title)
	s.respondMutation(w, r, doc, changed, err, noticeAddedToFavorites)
}

type renameRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleRenameItem(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(title) > dashboard.MaxTitleLen {
		jsonError(w, fmt.Sprintf("title exceeds %d characters", dashboard.MaxTitleLen), http.StatusBadRequest)
		return
	}
	doc, changed, err := s.store.RenameItem(r.Context(), chi.URLParam(r, "itemID"), title)
	s.respondMutation(w, r, doc, changed, err, "")
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	doc, changed, err := s.store.DeleteItem(r.Context(), chi.URLParam(r, "itemID"))
	s.respondMutation(w, r, doc, changed, err, noticeItemDeleted)
}

type targetRequest struct {
	Target string `json:"target"`
}

func (s *Server) decodeTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req targetRequest
	if !decodeBody(w, r, &req, false) {
		return "", false
	}
	target := strings.TrimSpace(req.Target)
	if target == "" {
		jsonError(w, "target is required", http.StatusBadRequest)
		return "", false
	}
	return target, true
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	target, ok := s.decodeTarget(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemID")
	doc, changed, err := s.store.MoveItem(r.Context(), itemID, target)
	s.respondMutation(w, r, doc, changed, err, moveNotice(doc, itemID))
}

// moveNotice names where a moved item ended up; unknown targets fall back
// to Favorites.
func moveNotice(doc dashboard.Document, itemID string) string {
	if loc, ok := doc.Find(itemID); ok && loc.Depth > 0 {
		return gesture.NoticeMovedToFolder
	}
	return gesture.NoticeMovedToFavorites
}

func (s *Server) handleReorderItem(w http.ResponseWriter, r *http.Request) {
	target, ok := s.decodeTarget(w, r)
	if !ok {
		return
	}
	doc, changed, err := s.store.ReorderItem(r.Context(), chi.URLParam(r, "itemID"), target)
	s.respondMutation(w, r, doc, changed, err, "")
}

func (s *Server) handleMergeItem(w http.ResponseWriter, r *http.Request) {
	target, ok := s.decodeTarget(w, r)
	if !ok {
		return
	}
	doc, changed, err := s.store.CreateFolderWithItems(r.Context(), chi.URLParam(r, "itemID"), target)
	s.respondMutation(w, r, doc, changed, err, gesture.NoticeFolderCreated)
}

// Activation outcomes.
const (
	activateNone       = "none"
	activateOpenFolder = "open_folder"
	activateNavigate   = "navigate"
	activateClearData  = "clear_data"
	activateAddCurrent = "add_current"
)

func (s *Server) handleActivateItem(w http.ResponseWriter, r *http.Request) {
	var page currentPageRequest
	if !decodeBody(w, r, &page, true) {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	loc, ok := doc.Find(itemID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"kind": activateNone})
		return
	}
	it := *loc.Item

	switch {
	case it.IsFolder():
		s.resolver.OpenFolder(it.ID)
		writeJSON(w, http.StatusOK, map[string]any{
			"kind":   activateOpenFolder,
			"folder": viewItem(it),
		})
	case it.Type == dashboard.TypeLink:
		writeJSON(w, http.StatusOK, map[string]any{
			"kind": activateNavigate,
			"url":  it.URL,
		})
	case it.Action == dashboard.ActionClearData:
		job, err := s.orchestrator.SubmitClear()
		if err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"kind":     activateClearData,
			"job_id":   job.ID,
			"status":   job.Snapshot().Status,
			"poll_url": "/api/actions/clear-data/" + job.ID,
		})
	case it.Action == dashboard.ActionAddCurrent:
		if err := dashboard.ValidateURL(page.URL); err != nil {
			jsonError(w, "current page: "+err.Error(), http.StatusBadRequest)
			return
		}
		doc, changed, err := s.store.AddCurrentPage(r.Context(), page.URL, page.Title)
		if err != nil {
			s.log.Error("add current page", "error", err)
			jsonError(w, "storage error", http.StatusInternalServerError)
			return
		}
		resp := map[string]any{
			"kind":     activateAddCurrent,
			"changed":  changed,
			"sections": viewSections(doc, false),
		}
		if changed {
			resp["notice"] = s.orchestrator.Notices().Post(pipeline.NoticeSuccess, noticeAddedToFavorites)
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"kind": activateNone})
	}
}
