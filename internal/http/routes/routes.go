package routes

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/msafzal/scholarsite/internal/cache"
	"github.com/msafzal/scholarsite/internal/filter"
	"github.com/msafzal/scholarsite/internal/scholar"
)

// DatasetSource is what the handlers need from the dataset cache.
type DatasetSource interface {
	Lookup(ctx context.Context) (scholar.Dataset, cache.Source)
	Status() cache.Status
}

type Server struct {
	Router *chi.Mux
	Data   DatasetSource
	Tmpl   *template.Template // index page; nil disables "/"
	Static http.FileSystem
	Log    zerolog.Logger
}

type ServerOptions struct {
	Data      DatasetSource
	Tmpl      *template.Template
	StaticDir string
	Logger    zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)

	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "."
	}
	s := &Server{Router: r, Data: opts.Data, Tmpl: opts.Tmpl, Static: http.Dir(staticDir), Log: opts.Logger}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Get("/", s.handleIndex)
	r.Get("/api/publications", s.handlePublications)
	r.Get("/api/profile", s.handleProfile)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/placeholder/{width}/{height}", s.handlePlaceholder)
	r.Get("/*", s.handleStatic)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode json response")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.Tmpl == nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	ds, src := s.Data.Lookup(r.Context())
	w.Header().Set("X-Cache", string(src))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Tmpl.Execute(w, ds.Profile); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handlePublications always answers 200; upstream trouble shows up only in
// the X-Cache header.
func (s *Server) handlePublications(w http.ResponseWriter, r *http.Request) {
	ds, src := s.Data.Lookup(r.Context())
	pubs := filter.Apply(ds.Publications, filter.FromValues(r.URL.Query()))

	w.Header().Set("X-Cache", string(src))
	s.writeJSON(w, r, pubs)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ds, src := s.Data.Lookup(r.Context())
	w.Header().Set("X-Cache", string(src))
	s.writeJSON(w, r, ds.Profile)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, s.Data.Status())
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	width, errW := strconv.Atoi(chi.URLParam(r, "width"))
	height, errH := strconv.Atoi(chi.URLParam(r, "height"))
	if errW != nil || errH != nil || width < 0 || height < 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("Placeholder image " + strconv.Itoa(width) + "x" + strconv.Itoa(height))); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("write placeholder response")
	}
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))
	f, err := s.Static.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			hlog.FromRequest(r).Warn().Err(err).Str("file", name).Msg("open static file")
		}
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() || hidden(name) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// hidden reports whether any segment of a cleaned path is a dotfile, which
// keeps .env and VCS metadata out of the static root.
func hidden(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
