package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tubesnap/internal/downloader"
	"tubesnap/internal/session"
	"tubesnap/pkg/models"
)

var (
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerNotRunning     = errors.New("server is not running")
)

// MetadataFetcher is the metadata-only extraction call
type MetadataFetcher interface {
	ExtractInfo(ctx context.Context, url string) (*models.VideoInfo, error)
}

// FileDownloader runs one download request to completion
type FileDownloader interface {
	Download(ctx context.Context, req models.DownloadRequest, publish func(string)) (*downloader.File, error)
}

// Server is the HTTP server behind the browser UI
type Server struct {
	config   *models.Config
	sessions *session.Store
	fetcher  MetadataFetcher
	dl       FileDownloader
	jobs     *jobRegistry
	router   *chi.Mux
	server   *http.Server
	listener net.Listener
	running  bool
	mu       sync.RWMutex
}

// NewServer creates a server wired to the given extraction and download
// implementations
func NewServer(config *models.Config, fetcher MetadataFetcher, dl FileDownloader) *Server {
	s := &Server{
		config:   config,
		sessions: session.NewStore(time.Duration(config.SessionTTLMinutes) * time.Minute),
		fetcher:  fetcher,
		dl:       dl,
		jobs:     newJobRegistry(time.Duration(config.SessionTTLMinutes) * time.Minute),
		router:   chi.NewRouter(),
	}

	s.setupRoutes()

	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)

	s.router.Route("/api", func(r chi.Router) {
		if d := s.apiTimeout(); d > 0 {
			r.Use(middleware.Timeout(d))
		}
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/download", s.handleDownload)
		r.Get("/progress/{id}", s.handleProgress)
		r.Get("/file/{id}", s.handleFile)
	})
}

// apiTimeout bounds one API request. Analyze is the slowest call on the
// group (downloads run detached with their own deadline), so the ceiling is
// its configured timeout plus slack for request decoding and the response.
// A non-positive analyze timeout disables the middleware too.
func (s *Server) apiTimeout() time.Duration {
	if s.config.AnalyzeTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.config.AnalyzeTimeoutSeconds)*time.Second + 30*time.Second
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerAlreadyRunning
	}

	addr := s.GetAddr()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	s.running = true

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrServerNotRunning
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.running = false
	s.server = nil
	s.listener = nil

	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetAddr returns the configured listen address
func (s *Server) GetAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.config.WebServerPort)
}

// GetActualAddr returns the actual listening address (useful when port is 0)
func (s *Server) GetActualAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.GetAddr()
}
