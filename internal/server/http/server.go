package internalhttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/lomoval/strikeboard/internal/app"
	"github.com/lomoval/strikeboard/internal/metrics"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

type Config struct {
	Host string
	Port int
	// Locale is the default collation locale of the event list.
	Locale string
}

type Server struct {
	srv     *http.Server
	addr    string
	app     *app.App
	metrics *metrics.Metrics
	mux     *runtime.ServeMux
	locale  language.Tag
}

func NewServer(config Config, app *app.App, m *metrics.Metrics) (*Server, error) {
	locale := language.Und
	if config.Locale != "" {
		var err error
		if locale, err = language.Parse(config.Locale); err != nil {
			return nil, fmt.Errorf("incorrect locale %q: %w", config.Locale, err)
		}
	}

	s := &Server{
		addr:    net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		app:     app,
		metrics: m,
		mux:     runtime.NewServeMux(),
		locale:  locale,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	s.srv = &http.Server{Addr: s.addr, Handler: s.Handler()}
	return s, nil
}

func (s *Server) routes() error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/health", s.health},
		{http.MethodGet, "/metrics", s.metricsHandler},
		{http.MethodGet, "/categories", s.listCategories},
		{http.MethodGet, "/events", s.listEvents},
		{http.MethodPost, "/events", s.createEvent},
		{http.MethodPost, "/events/refresh", s.refresh},
		{http.MethodGet, "/events/{id}", s.getEvent},
		{http.MethodPut, "/events/{id}", s.updateEvent},
		{http.MethodPost, "/events/{id}/delete", s.requestDelete},
		{http.MethodDelete, "/events/{id}/delete", s.cancelDelete},
		{http.MethodDelete, "/events/{id}", s.confirmDelete},
		{http.MethodPost, "/events/{id}/participate", s.participate},
		{http.MethodPost, "/events/{id}/favorite", s.toggleFavorite},
		{http.MethodPost, "/events/{id}/share", s.share},
		{http.MethodGet, "/events/{id}/comments", s.listComments},
		{http.MethodPost, "/events/{id}/comments", s.addComment},
	}
	for _, r := range routes {
		if err := s.handle(r.method, r.pattern, r.handler); err != nil {
			return fmt.Errorf("failed to register %s %s: %w", r.method, r.pattern, err)
		}
	}
	return nil
}

func (s *Server) handle(method, pattern string, h runtime.HandlerFunc) error {
	route := method + " " + pattern
	return s.mux.HandlePath(method, pattern, func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		s.metrics.Observe(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h(w, r, params)
		})).ServeHTTP(w, r)
	})
}

// Handler is the routed API with request logging.
func (s *Server) Handler() http.Handler {
	return loggingMiddleware(s.mux)
}

func (s *Server) Start(_ context.Context) error {
	log.Printf("starting http server on %s", s.addr)
	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func getIP(req *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}

	if parsed := net.ParseIP(ip); parsed == nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}
	return ip, nil
}
