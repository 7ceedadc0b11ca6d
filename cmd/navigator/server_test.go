package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"kuanb/gosm-navigator/locale"
	"kuanb/gosm-navigator/navigation"
	"kuanb/gosm-navigator/osm"
	"kuanb/gosm-navigator/routing"
	"kuanb/gosm-navigator/speech"
)

// trace drives north on Main Street and turns east into Oak Street.
const trace = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[
	[0.00001,0.0005],[0.00001,0.0015],[0.0005,0.00201],[0.0015,0.00201]]}}]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	nodes := map[int64]*osm.OsmNode{
		1: {ID: 1, Lon: 0, Lat: 0},
		2: {ID: 2, Lon: 0, Lat: 0.002},
		3: {ID: 3, Lon: 0.002, Lat: 0.002},
		4: {ID: 4, Lon: 0, Lat: 0.004},
	}
	raw := []osm.RawWay{
		{ID: 1, Nodes: []osm.OsmNodeId{1, 2, 4}, Tags: map[string]string{"highway": "residential", "name": "Main Street"}},
		{ID: 2, Nodes: []osm.OsmNodeId{2, 3}, Tags: map[string]string{"highway": "residential", "name": "Oak Street"}},
	}
	graph := osm.Build(nodes, raw, nil)

	phrases, err := locale.New(language.English)
	if err != nil {
		t.Fatalf("locale: %v", err)
	}
	sessions, err := newSessionStore(8)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	return &Server{
		graph:    graph,
		matcher:  routing.NewHMMMapMatcher(graph),
		phrases:  phrases,
		cfg:      navigation.DefaultConfig(),
		speech:   speech.Estimator{CPS: 15},
		sessions: sessions,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerStatus(t *testing.T) {
	h := newTestServer(t).Handler()
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"bad json", http.MethodPost, "/instructions", "{", http.StatusBadRequest},
		{"no coordinates", http.MethodPost, "/instructions", `{"type":"FeatureCollection","features":[]}`, http.StatusBadRequest},
		{"bad language", http.MethodPost, "/instructions?lang=!!", trace, http.StatusBadRequest},
		{"off the map", http.MethodPost, "/sessions", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[5,5]}}]}`, http.StatusUnprocessableEntity},
		{"unknown session", http.MethodGet, "/sessions/nope", "", http.StatusNotFound},
		{"unknown position", http.MethodPost, "/sessions/nope/position", `{"lon":0,"lat":0}`, http.StatusNotFound},
		{"unknown delete", http.MethodDelete, "/sessions/nope", "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/instructions", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, tt.method, tt.path, tt.body); rec.Code != tt.want {
				t.Fatalf("got %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestMatch(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodPost, "/match", trace)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Features []struct {
			Properties struct {
				WayID int64  `json:"way_id"`
				Name  string `json:"name"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Features) != 4 {
		t.Fatalf("got %d features, want one per observation", len(out.Features))
	}
	if got := out.Features[3].Properties.Name; got != "Oak Street" {
		t.Fatalf("last match on %q, want Oak Street", got)
	}
}

func TestInstructions(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodPost, "/instructions", trace)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Features []struct {
			Properties ManeuverJSON `json:"properties"`
		} `json:"features"`
		Speech string `json:"speech"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Features) != 3 {
		t.Fatalf("got %d maneuvers, want position, turn and destination", len(out.Features))
	}
	kinds := []string{
		out.Features[0].Properties.Kind,
		out.Features[1].Properties.Kind,
		out.Features[2].Properties.Kind,
	}
	want := []string{"nav_position", "nav_right_2", "nav_destination"}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if got := out.Features[1].Properties.Street; got != "Oak Street" {
		t.Fatalf("turn into %q, want Oak Street", got)
	}
	if out.Speech == "" {
		t.Fatal("expected a spoken announcement")
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/sessions", trace)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	var created SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || len(created.Maneuvers) == 0 {
		t.Fatalf("created = %+v", created)
	}
	if len(created.Speech) == 0 {
		t.Fatal("a new route must be announced")
	}
	if s.sessions.len() != 1 {
		t.Fatalf("sessions = %d, want 1", s.sessions.len())
	}

	path := "/sessions/" + created.ID
	if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, path+"/position", "not json"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad position: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, path+"/position", `{"lon":0.00001,"lat":0.0015}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("position: status %d: %s", rec.Code, rec.Body.String())
	}
	var moved SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &moved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if moved.ID != created.ID || len(moved.Maneuvers) != len(created.Maneuvers) {
		t.Fatalf("moved = %+v", moved)
	}
	if moved.Maneuvers[1].DistanceMeters >= created.Maneuvers[1].DistanceMeters {
		t.Fatalf("turn distance %v did not shrink from %v", moved.Maneuvers[1].DistanceMeters, created.Maneuvers[1].DistanceMeters)
	}

	if rec := do(t, h, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", rec.Code)
	}
}
