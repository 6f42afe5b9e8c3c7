package chart

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/stellarsignal/orbitwatch/core"
	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/model"
)

// CountsProvider exposes the live population split; TrackerState
// satisfies it.
type CountsProvider interface {
	CategoryCounts() model.CategoryCounts
}

// Server renders forecast charts over HTTP. Projections are pure
// functions of their inputs, so every request recomputes from scratch
// rather than caching state.
type Server struct {
	counts CountsProvider
	log    logging.Logger
}

// NewServer builds the chart endpoints over the given counts provider.
func NewServer(counts CountsProvider, log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{counts: counts, log: log}
}

// Register mounts the chart routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/charts/forecast", s.handleForecast)
	mux.HandleFunc("/charts/categories", s.handleCategories)
}

// handleForecast serves the long-range growth chart. Query params "start"
// and "end" select the year range, bounded to [2000, 2100] with a default
// of 2000..current+10.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	currentYear := time.Now().Year()
	start := yearParam(r, "start", core.BaselineYear)
	end := yearParam(r, "end", currentYear+10)
	if end < start {
		http.Error(w, "end year precedes start year", http.StatusBadRequest)
		return
	}

	points := core.ProjectDebrisGrowth(start, end, core.BaselineCount)
	s.render(w, r, ForecastChart(points))
}

// handleCategories serves the ten-year per-category forecast seeded from
// the live population.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	years := 10
	if v := r.URL.Query().Get("years"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 && parsed <= 50 {
			years = parsed
		}
	}

	points := core.ProjectCategoryGrowth(s.counts.CategoryCounts(), years)
	s.render(w, r, CategoryChart(points, time.Now().Year()))
}

type renderable interface {
	Render(w io.Writer) error
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, chart renderable) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		s.log.Error(r.Context(), "chart render failed", logging.Err(err))
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func yearParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < core.BaselineYear || year > 2100 {
		return def
	}
	return year
}
