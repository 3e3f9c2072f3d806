package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/html"

	"github.com/dgallion1/flowguide/internal/mount"
	"github.com/dgallion1/flowguide/internal/render"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var entries []render.IndexEntry
	for _, e := range s.catalog.List() {
		entries = append(entries, render.IndexEntry{Name: e.Name, Title: e.Name})
	}
	var buf bytes.Buffer
	if err := s.renderer.Index(&buf, entries); err != nil {
		s.log.Error("render index", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleFlowchartPage renders the page shell, mounts the named flowchart into
// it server side, and registers the mount so the page script can drive it.
func (s *Server) handleFlowchartPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	entry, ok := s.catalog.Lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	m, page, err := s.attach(r, entry.Name, entry.Locator, true)
	if err != nil {
		s.log.Error("mount page", "flowchart", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.mounts.Put(m)

	var buf bytes.Buffer
	if err := html.Render(&buf, page); err != nil {
		s.log.Error("render page", "flowchart", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// attach builds a page for name and mounts the flowchart at locator into it.
func (s *Server) attach(r *http.Request, name, locator string, toggleAll bool) (*mount.Mount, *html.Node, error) {
	var buf bytes.Buffer
	err := s.renderer.Page(&buf, render.PageData{
		Title:       name,
		Name:        name,
		ContainerID: ContainerID,
		ToggleAll:   toggleAll,
	})
	if err != nil {
		return nil, nil, err
	}
	page, err := html.Parse(&buf)
	if err != nil {
		return nil, nil, err
	}
	m, err := mount.Attach(r.Context(), page, ContainerID, locator, s.loader, mount.Options{
		Name:     name,
		Strict:   s.cfg.Strict,
		Log:      s.log,
		Renderer: s.renderer,
	})
	if err != nil {
		return nil, nil, err
	}
	return m, page, nil
}
