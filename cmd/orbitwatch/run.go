package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarsignal/orbitwatch/core"
	"github.com/stellarsignal/orbitwatch/internal/chart"
	"github.com/stellarsignal/orbitwatch/internal/loader"
	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/internal/observability"
	"github.com/stellarsignal/orbitwatch/internal/sim/state"
	"github.com/stellarsignal/orbitwatch/timectrl"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tick loop and serve tracking data, charts, and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runTracker(cmd.Context(), cfg)
		},
	}
}

func runTracker(ctx context.Context, cfg *Config) error {
	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewTrackerCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	tracker := state.NewTrackerState(
		core.Viewport{Width: cfg.ViewWidth, Height: cfg.ViewHeight},
		log,
		state.WithMetricsRecorder(collector),
		state.WithTrailWindow(cfg.TrailWindow()),
		state.WithHoverRadius(cfg.HoverRadiusPx),
	)

	l := loader.New(cfg.DataBaseURL, log, loader.WithMetrics(collector))
	refresher := loader.NewRefresher(l, tracker, log)

	// Block on the first load so the tick loop starts with a populated
	// generation; a fetch failure still resolves to synthetic data.
	<-refresher.Refresh(ctx, cfg.Source())

	tc := timectrl.NewTimeController(time.Now().UTC(), cfg.Tick(), timectrl.RealTime)
	tc.AddListener(tracker.AdvanceTick)
	tickDone := tc.Start(ctx, 0)

	go func() {
		ticker := time.NewTicker(cfg.RefreshInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresher.Refresh(ctx, cfg.Source())
			}
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	chart.NewServer(tracker, log).Register(mux)
	mux.HandleFunc("/snapshot", handleSnapshot(tracker))
	mux.HandleFunc("/hover", handleHover(tracker))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info(ctx, "tracker running",
		logging.String("addr", cfg.ListenAddr),
		logging.String("source", cfg.DataSource),
		logging.Int("tick_ms", cfg.TickMillis),
	)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-tickDone
	return nil
}

// handleSnapshot serves the rendering sink's per-tick feed as JSON:
// positions, trails, and the current hover target.
func handleSnapshot(tracker *state.TrackerState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := tracker.Snapshot()

		type position struct {
			ID       int     `json:"id"`
			Name     string  `json:"name"`
			Category string  `json:"category"`
			Color    string  `json:"color"`
			X        float64 `json:"x"`
			Y        float64 `json:"y"`
		}
		type trailPoint struct {
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
			TS int64   `json:"ts"`
		}
		out := struct {
			Generation int                  `json:"generation"`
			Positions  []position           `json:"positions"`
			Trails     map[int][]trailPoint `json:"trails"`
			Hover      *position            `json:"hover,omitempty"`
		}{
			Generation: snap.Generation,
			Positions:  make([]position, 0, len(snap.Positions)),
			Trails:     make(map[int][]trailPoint, len(snap.Trails)),
		}

		for _, p := range snap.Positions {
			out.Positions = append(out.Positions, position{
				ID:       p.CatalogID,
				Name:     p.Name,
				Category: p.Category.String(),
				Color:    p.Category.Color(),
				X:        p.X,
				Y:        p.Y,
			})
		}
		for id, samples := range snap.Trails {
			points := make([]trailPoint, 0, len(samples))
			for _, s := range samples {
				points = append(points, trailPoint{X: s.X, Y: s.Y, TS: s.Timestamp.UnixMilli()})
			}
			out.Trails[id] = points
		}
		if snap.Hover != nil {
			out.Hover = &position{
				ID:       snap.Hover.CatalogID,
				Name:     snap.Hover.Name,
				Category: snap.Hover.Category.String(),
				Color:    snap.Hover.Category.Color(),
				X:        snap.Hover.X,
				Y:        snap.Hover.Y,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// handleHover answers a one-off pointer query (?x=&y=) and also updates
// the tracked pointer so subsequent snapshots carry the hover target.
func handleHover(tracker *state.TrackerState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
		y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
		if errX != nil || errY != nil {
			http.Error(w, "x and y query parameters are required", http.StatusBadRequest)
			return
		}

		tracker.SetPointer(x, y)
		hit, ok := tracker.ResolveHover(x, y)

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_, _ = w.Write([]byte("{}"))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       hit.CatalogID,
			"name":     hit.Name,
			"category": hit.Category.String(),
			"lat":      hit.Lat,
			"lon":      hit.Lon,
		})
	}
}
