package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/CAFxX/httpcompression"
)

//go:embed templates/*.html static/*.js
var assetsFS embed.FS

type ServerConfig struct {
	Addr     string
	Dir      string
	ReadOnly bool
}

// Server mirrors the timeline into a browser. Localhost, single user: every
// websocket connection gets its own engine over freshly loaded state.
type Server struct {
	cfg      ServerConfig
	tmpl     *template.Template
	compress func(http.Handler) http.Handler
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, compress: compress}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))

	return s.compress(mux)
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type indexVM struct {
	Dir      string
	ReadOnly bool
	Project  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	vm := indexVM{
		Dir:      strings.TrimSpace(s.cfg.Dir),
		ReadOnly: s.cfg.ReadOnly,
		Project:  strings.TrimSpace(r.URL.Query().Get("project")),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
