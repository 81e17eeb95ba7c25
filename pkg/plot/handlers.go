package plot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/roadrisk/pkg/chart"
	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
)

type modeOption struct {
	Slug     core.Mode
	Label    string
	Selected bool
}

// handleHealth reports liveness and uptime
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
	if err != nil {
		s.log.Error("Failed to write health status: ", err)
	}
}

// handleScript serves the transpiled dashboard script
func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, s.scriptContent)
}

// handleIndex renders the dashboard shell with the mode selector
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	mode, topN, ok := s.parseQuery(w, r)
	if !ok {
		return
	}

	modes := make([]modeOption, 0, len(core.Modes()))
	for _, m := range core.Modes() {
		modes = append(modes, modeOption{Slug: m, Label: m.Label(), Selected: m == mode})
	}

	w.Header().Set("Content-Type", "text/html")
	err := s.indexHTML.Execute(w, map[string]any{
		"title": dashboard.Title,
		"mode":  mode,
		"modes": modes,
		"top":   max(core.MinTopN, min(topN, core.MaxTopN)),
		"min":   core.MinTopN,
		"max":   core.MaxTopN,
	})
	if err != nil {
		s.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handlePage returns the full page for a mode as JSON
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.requestPage(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		s.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleChartPNG renders one figure of a page to PNG
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing chart id", http.StatusBadRequest)
		return
	}

	page, ok := s.requestPage(w, r)
	if !ok {
		return
	}

	fig := page.Figure(id)
	if fig == nil {
		http.Error(w, fmt.Sprintf("chart %q not found in %s mode", id, page.Mode), http.StatusNotFound)
		return
	}

	buffer := bytes.NewBuffer(nil)
	err := chart.RenderPNG(fig, buffer, chart.DefaultImageWidth, chart.DefaultImageHeight)
	if errors.Is(err, chart.ErrUnsupportedKind) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("chart", id).Error("PNG rendering failed")
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing PNG response: ", err)
	}
}

// handleExport downloads the table of a mode as CSV
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	page, ok := s.requestPage(w, r)
	if !ok {
		return
	}

	buffer := bytes.NewBuffer(nil)
	if err := page.WriteCSV(buffer); err != nil {
		s.log.Error("Failed writing CSV: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=districts_"+string(page.Mode)+".csv")
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing CSV response: ", err)
	}
}

// requestPage resolves the page for the request query. It writes the error
// response itself and reports false when the request cannot be served.
func (s *Server) requestPage(w http.ResponseWriter, r *http.Request) (*dashboard.Page, bool) {
	mode, topN, ok := s.parseQuery(w, r)
	if !ok {
		return nil, false
	}

	page, err := s.page(r.Context(), mode, topN)
	if err != nil {
		s.log.WithError(err).WithField("mode", mode).Error("Page build failed")
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return nil, false
	}
	return page, true
}

func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request) (core.Mode, int, bool) {
	query := r.URL.Query()

	mode, err := core.ParseMode(query.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", 0, false
	}

	topN := s.defaultTopN
	if raw := query.Get("top"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid top value %q", raw), http.StatusBadRequest)
			return "", 0, false
		}
	}
	return mode, topN, true
}
