package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/startpage/internal/dashboard"
	"github.com/dgallion1/startpage/internal/gesture"
	"github.com/dgallion1/startpage/internal/pipeline"
)

type viewResponse struct {
	Gesture  gesture.Snapshot `json:"gesture"`
	Folder   *itemView        `json:"folder,omitempty"`
	Sections []sectionView    `json:"sections"`
}

func (s *Server) currentView(doc dashboard.Document) viewResponse {
	s.resolver.Sync(doc)
	resp := viewResponse{
		Gesture:  s.resolver.Snapshot(),
		Sections: viewSections(doc, true),
	}
	if id := resp.Gesture.ActiveFolderID; id != "" {
		if loc, ok := doc.FindFolder(id); ok {
			v := viewItem(*loc.Item)
			resp.Folder = &v
		}
	}
	return resp
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.currentView(doc))
}

type openFolderRequest struct {
	FolderID string `json:"folder_id"`
}

func (s *Server) handleOpenFolder(w http.ResponseWriter, r *http.Request) {
	var req openFolderRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	if _, ok := doc.FindFolder(req.FolderID); !ok {
		jsonError(w, "folder not found", http.StatusNotFound)
		return
	}
	s.resolver.OpenFolder(req.FolderID)
	writeJSON(w, http.StatusOK, s.currentView(doc))
}

func (s *Server) handleCloseFolder(w http.ResponseWriter, r *http.Request) {
	s.resolver.GoHome()
	doc, err := s.store.Document(r.Context())
	if err != nil {
		s.log.Error("load document", "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.currentView(doc))
}

// Drag events accepted by /api/gesture.
const (
	eventDragStart      = "drag_start"
	eventEnterItem      = "enter_item"
	eventLeaveItem      = "leave_item"
	eventDropItem       = "drop_item"
	eventDropBackground = "drop_background"
	eventEnterHeader    = "enter_header"
	eventLeaveHeader    = "leave_header"
	eventDropHeader     = "drop_header"
	eventDragEnd        = "drag_end"
)

type gestureRequest struct {
	Event  string `json:"event"`
	ItemID string `json:"item_id"`
}

type gestureResponse struct {
	Gesture gesture.Snapshot  `json:"gesture"`
	Result  *mutationResponse `json:"result,omitempty"`
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	event := strings.TrimSpace(req.Event)

	// Item types come from the stored tree, never from the client.
	var item dashboard.Item
	var found bool
	if event == eventDragStart || event == eventEnterItem || event == eventDropItem {
		if req.ItemID == "" {
			jsonError(w, "item_id is required for "+event, http.StatusBadRequest)
			return
		}
		doc, err := s.store.Document(r.Context())
		if err != nil {
			s.log.Error("load document", "error", err)
			jsonError(w, "storage error", http.StatusInternalServerError)
			return
		}
		if loc, ok := doc.Find(req.ItemID); ok {
			item, found = *loc.Item, true
		}
	}

	var (
		res     gesture.Result
		dropped bool
		err     error
	)
	switch event {
	case eventDragStart:
		if found {
			s.resolver.DragStart(item)
		}
	case eventEnterItem:
		if found {
			s.resolver.EnterItem(item)
		}
	case eventLeaveItem:
		s.resolver.LeaveItem()
	case eventDropItem:
		if found {
			res, err = s.resolver.DropOnItem(r.Context(), item)
			dropped = true
		} else {
			s.resolver.DragEnd()
		}
	case eventDropBackground:
		res, err = s.resolver.DropOnBackground(r.Context())
		dropped = true
	case eventEnterHeader:
		s.resolver.EnterHeader()
	case eventLeaveHeader:
		s.resolver.LeaveHeader()
	case eventDropHeader:
		res, err = s.resolver.DropOnHeader(r.Context())
		dropped = true
	case eventDragEnd:
		s.resolver.DragEnd()
	default:
		jsonError(w, "unknown gesture event: "+event, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.Error("gesture drop failed", "event", event, "item_id", req.ItemID, "error", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	resp := gestureResponse{}
	if dropped && res.Document.Sections != nil {
		mr := &mutationResponse{Changed: res.Changed, Sections: viewSections(res.Document, false)}
		if res.Changed && res.Notice != "" {
			n := s.orchestrator.Notices().Post(pipeline.NoticeSuccess, res.Notice)
			mr.Notice = &n
		}
		resp.Result = mr
	}
	resp.Gesture = s.resolver.Snapshot()
	writeJSON(w, http.StatusOK, resp)
}
