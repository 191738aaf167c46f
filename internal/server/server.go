package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/annotations"
	"github.com/koffiyao/bibleverse-api/internal/audio"
	"github.com/koffiyao/bibleverse-api/internal/bibleapi"
	"github.com/koffiyao/bibleverse-api/pkg/config"
)

type Server struct {
	port     string
	cfg      *config.Config
	log      *zap.Logger
	client   *bibleapi.Client
	resolver *audio.Resolver
	store    *annotations.Store
	handler  http.Handler
}

// NewServer constructs the app server with all dependencies injected.
func NewServer(cfg *config.Config, log *zap.Logger, store *annotations.Store) *Server {
	client := bibleapi.NewClient(cfg.BibleAPIBaseURL, cfg.BibleAPIKey, log)
	resolver := audio.NewResolver(client, cfg.FallbackAudioURL, log)

	s := &Server{
		port:     cfg.Port,
		cfg:      cfg,
		log:      log,
		client:   client,
		resolver: resolver,
		store:    store,
	}

	s.handler = s.RegisterRoutes()
	return s
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
