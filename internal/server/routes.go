package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/annotations"
	"github.com/koffiyao/bibleverse-api/internal/proxy"
	"github.com/koffiyao/bibleverse-api/pkg/response"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Get home route
	r.Get("/", s.ServerIsWorking)

	proxyHandler := proxy.NewHandler(s.client, s.resolver, s.log)
	annotationsHandler := annotations.NewHandler(s.store)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/local", annotationsHandler.Routes())
		r.Mount("/", proxyHandler.Routes())
	})

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "BibleVerse backend is running"
	response.JSON(w, http.StatusOK, resp)
}

// requestLogger logs every call with method, path and response status.
// Diagnostic only; nothing downstream depends on it.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
		)
	})
}
