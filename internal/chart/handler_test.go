package chart

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/model"
)

type fixedCounts struct{ counts model.CategoryCounts }

func (f fixedCounts) CategoryCounts() model.CategoryCounts { return f.counts }

func newTestMux() *http.ServeMux {
	s := NewServer(fixedCounts{model.CategoryCounts{Satellites: 10, Debris: 20, RocketBodies: 5}}, logging.Noop())
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

func TestHandleForecast_RendersHTML(t *testing.T) {
	mux := newTestMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/charts/forecast?start=2000&end=2030", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q, want text/html", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Orbital Debris Growth") {
		t.Error("forecast chart missing title")
	}
	if !strings.Contains(body, "2030") {
		t.Error("forecast chart missing requested end year")
	}
}

func TestHandleForecast_RejectsInvertedRange(t *testing.T) {
	mux := newTestMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/charts/forecast?start=2030&end=2010", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleCategories_RendersHTML(t *testing.T) {
	mux := newTestMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/charts/categories?years=5", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Per-Category Growth") {
		t.Error("category chart missing title")
	}
}
