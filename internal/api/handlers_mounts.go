package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/dgallion1/flowguide/internal/flowchart"
	"github.com/dgallion1/flowguide/internal/mount"
)

type createMountRequest struct {
	Name      string `json:"name"`
	ToggleAll *bool  `json:"toggle_all,omitempty"`
}

func (s *Server) handleCreateMount(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req createMountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	entry, ok := s.catalog.Lookup(req.Name)
	if !ok {
		jsonError(w, "flowchart not found", http.StatusNotFound)
		return
	}
	toggleAll := req.ToggleAll == nil || *req.ToggleAll

	m, _, err := s.attach(r, entry.Name, entry.Locator, toggleAll)
	if err != nil {
		s.log.Error("create mount", "flowchart", req.Name, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if m.Err() != nil {
		// Detail is logged by the mount; clients only get the generic message.
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"mount_id": m.ID,
			"error":    mount.FailureMessage,
		})
		return
	}
	s.mounts.Put(m)

	snap, err := m.Snapshot()
	if err != nil {
		writeMountError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetMount(w http.ResponseWriter, r *http.Request) {
	m := s.lookupMount(w, r)
	if m == nil {
		return
	}
	snap, err := m.Snapshot()
	if err != nil {
		writeMountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteMount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "mountID")
	if !s.mounts.Delete(id) {
		jsonError(w, "mount not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMountFragment(w http.ResponseWriter, r *http.Request) {
	m := s.lookupMount(w, r)
	if m == nil {
		return
	}
	frag, err := m.Fragment()
	if err != nil {
		s.log.Error("render fragment", "mount_id", m.ID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frag))
}

func (s *Server) handleMountText(w http.ResponseWriter, r *http.Request) {
	m := s.lookupMount(w, r)
	if m == nil {
		return
	}
	var buf bytes.Buffer
	if err := m.Text(&buf); err != nil {
		writeMountError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

type activateResponse struct {
	Node    flowchart.NodeState `json:"node"`
	Changed flowchart.Facet     `json:"changed"`
}

// handleActivate applies a header activation, or a detail-region activation
// with ?facet=detail.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	m := s.lookupMount(w, r)
	if m == nil {
		return
	}
	facet := flowchart.Facet(r.URL.Query().Get("facet"))
	switch facet {
	case "", flowchart.FacetChildren, flowchart.FacetDetail:
	default:
		jsonError(w, "facet must be children or detail", http.StatusBadRequest)
		return
	}

	st, changed, err := m.Activate(chi.URLParam(r, "nodeID"), facet)
	if err != nil {
		writeMountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activateResponse{Node: st, Changed: changed})
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	m := s.lookupMount(w, r)
	if m == nil {
		return
	}
	snap, err := m.ToggleAll()
	if err != nil {
		writeMountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) lookupMount(w http.ResponseWriter, r *http.Request) *mount.Mount {
	m := s.mounts.Get(chi.URLParam(r, "mountID"))
	if m == nil {
		jsonError(w, "mount not found", http.StatusNotFound)
	}
	return m
}

func writeMountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, flowchart.ErrUnknownNode):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, mount.ErrMountFailed):
		jsonError(w, mount.FailureMessage, http.StatusConflict)
	case errors.Is(err, mount.ErrToggleAllUnavailable):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
