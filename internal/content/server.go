// Package content serves layout pages and media to the renderer and hosts
// the websocket bridge that carries commands and events between the two.
package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed assets
var assets embed.FS

// Server is the embedded HTTP server the renderer loads layouts from. It
// binds to loopback only.
type Server struct {
	addr     string
	mediaDir string
	bridge   *Bridge
	logger   *slog.Logger
	httpSrv  *http.Server
}

// NewServer creates a content server for the given media directory.
func NewServer(port int, mediaDir string, bridge *Bridge, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     fmt.Sprintf("127.0.0.1:%d", port),
		mediaDir: mediaDir,
		bridge:   bridge,
		logger:   logger.With("component", "content"),
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/bridge", s.bridge.ServeHTTP)
	r.Get("/vitrine.js", s.serveAsset("assets/vitrine.js", "application/javascript"))
	r.Get("/splash.html", s.serveAsset("assets/splash.html", "text/html; charset=utf-8"))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/splash.html", http.StatusFound)
	})
	r.Handle("/*", http.FileServer(http.Dir(s.mediaDir)))

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("content server listen on %s: %w", s.addr, err)
	}

	s.httpSrv = &http.Server{Handler: r}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("content server stopped", "error", err)
		}
	}()

	s.logger.Info("content server listening", "addr", s.addr, "media_dir", s.mediaDir)
	return nil
}

// BaseURI returns the URI prefix layout paths are resolved against.
func (s *Server) BaseURI() string {
	return "http://" + s.addr + "/"
}

// Close shuts the server down, giving in-flight requests a moment to finish.
func (s *Server) Close() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) serveAsset(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := assets.ReadFile(path)
		if err != nil {
			http.Error(w, "asset missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}
