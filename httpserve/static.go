package httpserve

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/truthlens/newsroom/dlog"
)

func (s *Server) staticDir() string {
	if s.Cfg.StaticDir == "" {
		return "dist"
	}
	return s.Cfg.StaticDir
}

// checkStaticDir logs whether the built app is in place
func (s *Server) checkStaticDir() {
	dir := s.staticDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		dlog.Error().Str("dir", dir).Msg("Step4.2: CRITICAL: static directory missing")
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	dlog.Info().Str("dir", dir).Strs("contents", names).Msg("Step4.2: static directory exists")
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		dlog.Error().Msg("Step4.2: CRITICAL: index.html missing")
	}
}

// serveStatic serves files of the built app, falling back to index.html for client routes
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	dir := s.staticDir()
	name := path.Clean("/" + r.URL.Path)
	if strings.HasPrefix(name, "/api/") {
		http.NotFound(w, r)
		return
	}
	if name != "/" {
		file := filepath.Join(dir, filepath.FromSlash(name))
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, file)
			return
		}
	}
	index := filepath.Join(dir, "index.html")
	f, err := os.Open(index)
	if err != nil {
		dlog.Error().Err(err).Msg("Error sending file")
		http.Error(w, "Error loading application", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		http.Error(w, "Error loading application", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", fi.ModTime(), f)
}
