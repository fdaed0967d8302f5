package web

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"

	"github.com/xbito/yt-gt-browser/internal/auth"
	"github.com/xbito/yt-gt-browser/internal/db"
	"github.com/xbito/yt-gt-browser/internal/gtasks"
	"github.com/xbito/yt-gt-browser/internal/videos"
	"github.com/xbito/yt-gt-browser/internal/youtube"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	OAuth       *oauth2.Config
	TokenCache  *auth.TokenCache
	TemplatesFS fs.FS
	StaticFS    fs.FS
	Logger      *log.Logger

	// Database is optional; nil runs fully in-memory.
	Database *db.DB

	// YouTube client tuning.
	BatchSize   int
	RateLimit   float64
	CacheMaxAge time.Duration
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	sessions  SessionManager
	handlers  *Handlers
	logger    *log.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	var sessions SessionManager
	var snapshots SnapshotStore
	if cfg.Database != nil {
		sessions = NewDBSessionStore(cfg.Database)
		snapshots = cfg.Database.Snapshots()
	} else {
		sessions = NewSessionStore()
	}

	pipeline := newPipelineFactory(cfg)
	handlers := NewHandlers(cfg.OAuth, sessions, templates, cfg.TokenCache, snapshots, pipeline, cfg.Logger)

	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		sessions:  sessions,
		handlers:  handlers,
		logger:    cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newPipelineFactory builds per-token pipeline services. The oauth2 HTTP
// client refreshes the access token transparently on vendor calls.
func newPipelineFactory(cfg ServerConfig) PipelineFactory {
	return func(token *oauth2.Token) *videos.Service {
		httpClient := cfg.OAuth.Client(context.Background(), token)

		tasksClient := gtasks.NewClient(httpClient)
		ytClient := youtube.NewClient(httpClient,
			youtube.WithBatchSize(cfg.BatchSize),
			youtube.WithRateLimit(cfg.RateLimit),
		)

		opts := []videos.ServiceOption{}
		if cfg.Database != nil {
			opts = append(opts, videos.WithCache(cfg.Database.Videos(), cfg.CacheMaxAge))
		}

		return videos.NewService(tasksClient, ytClient, cfg.Logger, opts...)
	}
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	// Static files
	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Pages
	s.router.Get("/", s.handlers.Home)
	s.router.Get("/videos", s.handlers.Videos)
	s.router.Get("/videos/grid", s.handlers.VideosGrid)

	// Auth routes
	s.router.Get("/auth/login", s.handlers.Login)
	s.router.Get("/callback", s.handlers.Callback)
	s.router.Post("/auth/logout", s.handlers.Logout)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "url", "http://"+s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
