package httpserve

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/truthlens/newsroom/config"
	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/homepage"
	"github.com/truthlens/newsroom/hub"
	"github.com/truthlens/newsroom/kvstore"
	"github.com/truthlens/newsroom/restore"
	"github.com/truthlens/newsroom/settings"
)

// Server is the http surface of the newsroom: the generic document api, the public
// v1 api, the admin api, the event websocket, metrics and the single page app.
type Server struct {
	Cfg      config.ConfigHttp
	Store    kvstore.Store
	Settings *settings.Service
	Content  *content.Service
	Home     *homepage.Builder
	Restorer *restore.Restorer
	Hub      *hub.Hub

	mux     *http.ServeMux
	metrics *metrics
	claims  cmap.ConcurrentMap[string, *content.Claims]
}

func New(cfg config.ConfigHttp, store kvstore.Store, st *settings.Service, ct *content.Service, h *hub.Hub) *Server {
	s := &Server{
		Cfg:      cfg,
		Store:    store,
		Settings: st,
		Content:  ct,
		Home:     &homepage.Builder{Settings: st, Content: ct},
		Restorer: &restore.Restorer{Content: ct, Settings: st},
		Hub:      h,
		mux:      http.NewServeMux(),
		claims:   cmap.New[*content.Claims](),
	}
	s.metrics = newMetrics(h)
	s.routes()
	return s
}

type apiFunc func(w http.ResponseWriter, r *http.Request) (interface{}, error)

type claimsKey struct{}

// handle registers fn under pattern; its result is written by respond
func (s *Server) handle(pattern string, fn apiFunc) {
	s.mux.HandleFunc(pattern, s.metrics.instrument(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second*120)
		defer cancel()
		r = r.WithContext(ctx)
		result, err := fn(w, r)
		s.respond(w, r, result, err)
	}))
}

// admin registers fn behind a bearer token whose role may perform operation
func (s *Server) admin(pattern, operation string, fn apiFunc) {
	s.handle(pattern, func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		claims, err := s.Authorize(r, operation)
		if err != nil {
			return nil, err
		}
		return fn(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func claimsOf(r *http.Request) *content.Claims {
	claims, _ := r.Context().Value(claimsKey{}).(*content.Claims)
	return claims
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.CorsChecked(r, w) {
		return
	}
	s.allowOrigin(r, w)
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + strconv.FormatInt(s.Cfg.Port, 10),
		Handler:           s,
		ReadTimeout:       50 * time.Second,
		ReadHeaderTimeout: 50 * time.Second,
		WriteTimeout:      50 * time.Second,
		IdleTimeout:       15 * time.Second,
	}
	if s.Hub != nil {
		server.RegisterOnShutdown(s.Hub.Close)
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			dlog.Warn().Err(err).Msg("http server shutdown error")
		}
	}()
	go s.KeepPruningClaims(ctx, 10*time.Minute)
	s.checkStaticDir()
	dlog.Info().Int64("port", s.Cfg.Port).Msg("Step4.1: newsroom http server is starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		dlog.Error().Err(err).Msg("http server ListenAndServe error")
		return err
	}
	dlog.Info().Msg("newsroom http server stopped")
	return nil
}
