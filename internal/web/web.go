// Package web exposes the rendered week over HTTP: a JSON view of the
// packed layout, the SVG itself, and the captured PNG preview.
package web

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"weekgrid/internal/config"
	"weekgrid/internal/grid"
	"weekgrid/internal/ics"
	appLog "weekgrid/internal/log"
	"weekgrid/internal/model"
	"weekgrid/internal/render"
)

// Server provides HTTP access to the assembled week grid.
type Server struct {
	cfg      *config.Config
	mux      *http.ServeMux
	provider *ics.Provider

	// One-entry cache of the most recently assembled week so a burst of
	// requests does not refetch every feed.
	weekMu    sync.RWMutex
	weekCache *weekCache
}

const weekCacheTTL = 30 * time.Second

type weekCache struct {
	weekStart time.Time
	layout    grid.WeekLayout
	svg       string
	updatedAt time.Time
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		provider: ics.NewProvider(filepath.Join(cfg.CacheDir, "ics")),
	}
	s.registerRoutes()
	return s
}

// Handler returns the route handler, wrapped with basic auth when
// credentials are configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled")
		return s.basicAuthMiddleware(h)
	}
	return h
}

// StartServer binds to cfg.Listen and serves until the listener fails.
func StartServer(cfg *config.Config) error {
	s := NewServer(cfg)
	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	return http.ListenAndServe(cfg.Listen, s.Handler())
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/week", s.handleWeekJSON)
	s.mux.HandleFunc("/week.svg", s.handleWeekSVG)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware protects all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="weekgrid", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// assembleWeek fetches all feeds, runs the layout pipeline and renders
// the SVG for the week containing the requested date (query param
// "date", YYYY-MM-DD; defaults to today).
func (s *Server) assembleWeek(r *http.Request) (grid.WeekLayout, string, time.Time) {
	loc := resolveLocationOrLocal(s.cfg.Timezone)

	ref := time.Now().In(loc)
	if d := r.URL.Query().Get("date"); d != "" {
		if t, err := time.ParseInLocation("2006-01-02", d, loc); err == nil {
			ref = t
		} else {
			appLog.Debug("ignoring invalid date parameter", "date", d)
		}
	}
	weekStart := ics.Monday(ref)

	s.weekMu.RLock()
	wc := s.weekCache
	s.weekMu.RUnlock()
	if wc != nil && wc.weekStart.Equal(weekStart) && time.Since(wc.updatedAt) < weekCacheTTL {
		return wc.layout, wc.svg, weekStart
	}

	people := make([]model.Person, 0, len(s.cfg.People))
	sources := make([]ics.Source, 0, len(s.cfg.People))
	for _, pc := range s.cfg.People {
		id := pc.ID
		if id == "" {
			id = pc.Name
		}
		people = append(people, model.Person{ID: id, DisplayName: pc.Name, Initials: pc.Initials})
		if pc.ICS != "" {
			sources = append(sources, ics.Source{PersonID: id, URL: pc.ICS})
		}
	}

	in := grid.WeekInput{
		WeekStart:    weekStart,
		Hours:        model.HourWindow{Start: s.cfg.Hours.Start, End: s.cfg.Hours.End},
		People:       people,
		Occurrences:  s.provider.WeekOccurrences(r.Context(), sources, weekStart, loc),
		WeekdaysOnly: s.cfg.WeekdaysOnly,
	}

	layout := grid.BuildWeek(in, render.Measurer{})
	svg := render.WeekSVG(layout, render.Options{
		GroupName:    s.cfg.GroupName,
		WeekStartISO: weekStart.Format("2006-01-02"),
		Members:      len(people),
		Hours:        in.Hours,
	})

	s.weekMu.Lock()
	s.weekCache = &weekCache{
		weekStart: weekStart,
		layout:    layout,
		svg:       svg,
		updatedAt: time.Now(),
	}
	s.weekMu.Unlock()

	return layout, svg, weekStart
}

// blockDTO is the JSON view of a packed block.
type blockDTO struct {
	Day       int      `json:"day"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	Attendees []string `json:"attendees"`
	Lane      int      `json:"lane"`
	Lanes     int      `json:"lanes"`
}

type weekResponse struct {
	WeekStart string              `json:"week_start"`
	Timezone  string              `json:"timezone"`
	Members   int                 `json:"members"`
	NoData    bool                `json:"no_data"`
	Blocks    []blockDTO          `json:"blocks"`
	Colors    map[string]string   `json:"colors"`
	Geometry  grid.CanvasGeometry `json:"geometry"`
}

func (s *Server) handleWeekJSON(w http.ResponseWriter, r *http.Request) {
	layout, _, weekStart := s.assembleWeek(r)

	blocks := make([]blockDTO, 0, len(layout.Blocks))
	for _, b := range layout.Blocks {
		blocks = append(blocks, blockDTO{
			Day:       b.DayIndex,
			Start:     clock(b.Start),
			End:       clock(b.End),
			Title:     b.Title,
			Tags:      b.Tags,
			Attendees: b.Attendees,
			Lane:      b.Lane,
			Lanes:     b.LanesInDay,
		})
	}

	colors := make(map[string]string, len(layout.Colors))
	for label, c := range layout.Colors {
		colors[label] = c.String()
	}

	writeJSON(w, http.StatusOK, weekResponse{
		WeekStart: weekStart.Format("2006-01-02"),
		Timezone:  s.cfg.Timezone,
		Members:   len(s.cfg.People),
		NoData:    layout.Empty(),
		Blocks:    blocks,
		Colors:    colors,
		Geometry:  layout.Geometry,
	})
}

func (s *Server) handleWeekSVG(w http.ResponseWriter, r *http.Request) {
	_, svg, _ := s.assembleWeek(r)
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

// handlePreview serves the PNG written by the scheduled capture; 404
// until the first capture has run.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.CacheDir, "preview.png"))
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone, falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
