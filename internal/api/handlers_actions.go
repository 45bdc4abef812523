package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/startpage/internal/pipeline"
)

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	job, err := s.orchestrator.SubmitClear()
	if err != nil {
		if !errors.Is(err, pipeline.ErrStopped) {
			s.log.Warn("clear-data rejected", "error", err)
		}
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"since":    snap.Since,
		"poll_url": "/api/actions/clear-data/" + snap.ID,
	})
}

func (s *Server) handleClearStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleGetNotice(w http.ResponseWriter, r *http.Request) {
	n, ok := s.orchestrator.Notices().Current()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"notice": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notice": n})
}

func (s *Server) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "noticeID"), 10, 64)
	if err != nil {
		jsonError(w, "invalid notice id", http.StatusBadRequest)
		return
	}
	s.orchestrator.Notices().Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBridgeStats(w http.ResponseWriter, r *http.Request) {
	clearer := s.orchestrator.Clearer()
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoint":    clearer.Endpoint(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       clearer.Stats(),
	})
}
