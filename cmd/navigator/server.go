package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/geom"
	"kuanb/gosm-navigator/locale"
	"kuanb/gosm-navigator/navigation"
	"kuanb/gosm-navigator/osm"
	"kuanb/gosm-navigator/routing"
	"kuanb/gosm-navigator/speech"
)

// Server holds the graph, the matcher and the live navigation sessions.
type Server struct {
	graph    *osm.OsmGraph
	matcher  *routing.HMMMapMatcher
	phrases  *locale.Phrasebook
	cfg      navigation.Config
	speech   speech.Estimator
	sessions *sessionStore
	logger   *slog.Logger
}

// RuntimeMetrics holds memory and goroutine statistics
type RuntimeMetrics struct {
	Goroutines   int     `json:"goroutines"`
	AllocMB      float64 `json:"alloc_mb"`       // currently allocated heap
	TotalAllocMB float64 `json:"total_alloc_mb"` // cumulative allocated (includes freed)
	SysMB        float64 `json:"sys_mb"`         // total memory from OS
	HeapObjects  uint64  `json:"heap_objects"`
	NumGC        uint32  `json:"num_gc"`
	Sessions     int     `json:"sessions"`
}

func (s *Server) runtimeMetrics() RuntimeMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeMetrics{
		Goroutines:   runtime.NumGoroutine(),
		AllocMB:      float64(m.Alloc) / 1024 / 1024,
		TotalAllocMB: float64(m.TotalAlloc) / 1024 / 1024,
		SysMB:        float64(m.Sys) / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
		NumGC:        m.NumGC,
		Sessions:     s.sessions.len(),
	}
}

// startMetricsLogger logs runtime metrics every interval until done closes.
func (s *Server) startMetricsLogger(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m := s.runtimeMetrics()
				s.logger.Info("metrics", "goroutines", m.Goroutines, "alloc_mb", m.AllocMB,
					"sys_mb", m.SysMB, "heap_objects", m.HeapObjects, "gc_cycles", m.NumGC, "sessions", m.Sessions)
			}
		}
	}()
}

// Handler returns the gzip-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /instructions", s.handleInstructions)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/position", s.handlePosition)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.runtimeMetrics())
	})
	return gzhttp.GzipHandler(mux)
}

// ManeuverJSON is one maneuver on the wire.
type ManeuverJSON struct {
	Kind             string  `json:"kind"`
	DistanceMeters   float64 `json:"distance_m"`
	TimeSeconds      float64 `json:"time_s"`
	Level            int     `json:"level"`
	Short            string  `json:"short,omitempty"`
	Long             string  `json:"long,omitempty"`
	Street           string  `json:"street,omitempty"`
	StreetSystematic string  `json:"street_systematic,omitempty"`
	Destination      string  `json:"destination,omitempty"`
	ExitRef          string  `json:"exit_ref,omitempty"`
	ExitLabel        string  `json:"exit_label,omitempty"`
	Lon              float64 `json:"lon"`
	Lat              float64 `json:"lat"`
	Delta            int     `json:"delta"`
	RoundaboutDelta  int     `json:"roundabout_delta,omitempty"`
}

func toJSON(m navigation.ManeuverInfo) ManeuverJSON {
	return ManeuverJSON{
		Kind:             m.Kind.String(),
		DistanceMeters:   m.Distance,
		TimeSeconds:      m.Time.Seconds(),
		Level:            m.Level,
		Short:            m.Short,
		Long:             m.Long,
		Street:           m.StreetName,
		StreetSystematic: m.StreetNameSystematic,
		Destination:      m.Destination,
		ExitRef:          m.ExitRef,
		ExitLabel:        m.ExitLabel,
		Lon:              m.Point.Lon(),
		Lat:              m.Point.Lat(),
		Delta:            m.Delta,
		RoundaboutDelta:  m.RoundaboutDelta,
	}
}

// SessionResponse reports a session's state after a request.
type SessionResponse struct {
	ID         string         `json:"id"`
	Confidence float64        `json:"confidence,omitempty"`
	Speech     []string       `json:"speech"`
	Maneuvers  []ManeuverJSON `json:"maneuvers"`
}

// PositionRequest is a vehicle position update.
type PositionRequest struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// readTrace decodes a GeoJSON trace from the request body.
func readTrace(r *http.Request) ([]routing.Coordinate, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	defer r.Body.Close()

	var fc geom.GeoJSONFeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	var coords []routing.Coordinate
	for _, feature := range fc.Features {
		positions, err := feature.Geometry.Positions()
		if err != nil {
			return nil, fmt.Errorf("invalid %s coordinates: %w", feature.Geometry.Type, err)
		}
		for _, p := range positions {
			if len(p) >= 2 {
				coords = append(coords, routing.Coordinate{Lon: p[0], Lat: p[1]})
			}
		}
	}
	if len(coords) == 0 {
		return nil, errors.New("no coordinates found in GeoJSON")
	}
	return coords, nil
}

// phrasesFor honours a lang query parameter, falling back to the server
// language.
func (s *Server) phrasesFor(r *http.Request) (*locale.Phrasebook, error) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		return s.phrases, nil
	}
	return locale.Parse(lang)
}

// startNavigation matches the trace, builds a navigation context on the
// resulting route and positions it at the trace start.
func (s *Server) startNavigation(r *http.Request, said *speech.Log) (*navigation.Navigation, []osm.WayRef, routing.MatchResult, int, error) {
	coords, err := readTrace(r)
	if err != nil {
		return nil, nil, routing.MatchResult{}, http.StatusBadRequest, err
	}
	phrases, err := s.phrasesFor(r)
	if err != nil {
		return nil, nil, routing.MatchResult{}, http.StatusBadRequest, err
	}
	refs, match, err := s.matcher.MatchRoute(coords)
	if err != nil {
		return nil, nil, match, http.StatusUnprocessableEntity, fmt.Errorf("match trace: %w", err)
	}
	segs, err := s.graph.SegmentsFrom(coords[0].Point(), refs)
	if err != nil {
		return nil, nil, match, http.StatusUnprocessableEntity, fmt.Errorf("build route: %w", err)
	}

	nav := navigation.New(s.graph, phrases,
		navigation.WithConfig(s.cfg),
		navigation.WithSpeech(s.speech),
		navigation.WithLogger(s.logger),
	)
	if said != nil {
		nav.OnSpeech(said.Say)
	}
	nav.UpdateRoute(navigation.RouteUpdate{Status: navigation.StatusPathDoneNew, Segments: segs})
	return nav, refs, match, http.StatusOK, nil
}

func maneuvers(nav *navigation.Navigation) []ManeuverJSON {
	list := nav.Maneuvers()
	out := make([]ManeuverJSON, 0, len(list))
	for _, m := range list {
		out = append(out, toJSON(m))
	}
	return out
}

// handleMatch answers a trace with the matched segments as LineStrings.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	coords, err := readTrace(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("match request", "coordinates", len(coords))

	match := s.matcher.Match(coords)
	features := make([]geom.GeoJSONFeature, 0, len(match.MatchedWays))
	for _, wayID := range match.MatchedWays {
		way := s.graph.Ways[int64(wayID)]
		if way == nil || len(way.Geometry) < 2 {
			continue
		}
		f, err := geom.NewLineFeature(way.Geometry, map[string]any{
			"matched": true,
			"way_id":  wayID,
			"osm_id":  way.Source,
			"name":    way.Name,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		features = append(features, f)
	}
	writeJSON(w, http.StatusOK, struct {
		geom.GeoJSONFeatureCollection
		Confidence float64 `json:"confidence"`
	}{
		GeoJSONFeatureCollection: geom.GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features},
		Confidence:               match.Confidence,
	})
}

// handleInstructions answers a trace with the maneuvers along it as GeoJSON
// points.
func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	nav, _, match, status, err := s.startNavigation(r, nil)
	if err != nil {
		s.logger.Warn("instructions failed", "err", err)
		http.Error(w, err.Error(), status)
		return
	}

	list := maneuvers(nav)
	features := make([]geom.GeoJSONFeature, 0, len(list))
	for _, m := range list {
		f, err := geom.NewPointFeature(m.Lon, m.Lat, m)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		features = append(features, f)
	}
	s.logger.Info("instructions", "maneuvers", len(features), "confidence", match.Confidence)
	writeJSON(w, http.StatusOK, struct {
		geom.GeoJSONFeatureCollection
		Confidence float64 `json:"confidence"`
		Speech     string  `json:"speech"`
	}{
		GeoJSONFeatureCollection: geom.GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features},
		Confidence:               match.Confidence,
		Speech:                   nav.Announcement(navigation.ModeSpeech),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	said := speech.NewLog(32)
	nav, refs, match, status, err := s.startNavigation(r, said)
	if err != nil {
		s.logger.Warn("create session failed", "err", err)
		http.Error(w, err.Error(), status)
		return
	}
	sess := s.sessions.add(nav, refs, said)
	s.logger.Info("session created", "id", sess.id, "segments", len(refs))
	writeJSON(w, http.StatusCreated, SessionResponse{
		ID:         sess.id,
		Confidence: match.Confidence,
		Speech:     said.Drain(),
		Maneuvers:  maneuvers(nav),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, SessionResponse{ID: sess.id, Speech: []string{}, Maneuvers: maneuvers(sess.nav)})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid position: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.advance(s.graph, orb.Point{req.Lon, req.Lat}); err != nil {
		s.logger.Warn("position update failed", "id", sess.id, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: sess.id, Speech: sess.said.Drain(), Maneuvers: maneuvers(sess.nav)})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("id")) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
