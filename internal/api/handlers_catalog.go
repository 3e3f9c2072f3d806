package api

import (
	"net/http"

	"github.com/goccy/go-json"
)

func (s *Server) handleListFlowcharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"flowcharts": s.catalog.List()})
}

func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Reload(); err != nil {
		jsonError(w, "reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"flowcharts": s.catalog.Len()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
