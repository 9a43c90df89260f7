// Package api exposes the record-ingest REST service: clients register
// message formats and append typed records over HTTP, and the server turns
// them into a self-describing binary log on disk.
package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"

	"github.com/skyforge/sdlog/pkg/codec"
	"github.com/skyforge/sdlog/pkg/registry"
	"github.com/skyforge/sdlog/pkg/stream"
	"github.com/skyforge/sdlog/pkg/writer"
)

// Server owns one writer session over one log file. The writer is
// single-threaded by contract, so every handler that touches it serializes
// on the server mutex.
type Server struct {
	mu       sync.Mutex
	writer   *writer.Writer
	sink     *stream.File
	file     *os.File
	formats  map[uint8]*codec.MessageFormat
	registry *registry.Registry
	session  ksuid.KSUID
	metrics  *Metrics

	fsyncStop chan struct{}
}

// NewServer opens the log file, the format registry and the writer session
// for one server instance.
func NewServer(config ServerConfig, metrics *Metrics) (*Server, error) {
	if err := os.MkdirAll(config.LogDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	reg, err := registry.Open(config.RegistryPath)
	if err != nil {
		return nil, err
	}

	session := reg.NewSession()
	logPath := filepath.Join(config.LogDir, session.String()+".bin")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		_ = reg.Close()
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	sink := stream.NewFileSize(file, config.BufferSize)

	s := &Server{
		sink:     sink,
		file:     file,
		formats:  make(map[uint8]*codec.MessageFormat),
		registry: reg,
		session:  session,
		metrics:  metrics,
	}

	w, err := writer.New(sink, writer.WithAnnounceFunc(func(format *codec.MessageFormat) {
		metrics.RecordAnnouncement()
		if err := reg.PutFormat(session, format); err != nil {
			fmt.Printf("Warning: failed to record format announcement: %v\n", err)
		}
	}))
	if err != nil {
		_ = file.Close()
		_ = reg.Close()
		return nil, err
	}
	s.writer = w

	if config.FsyncIntervalMS > 0 {
		s.fsyncStop = make(chan struct{})
		go s.fsyncLoop(time.Duration(config.FsyncIntervalMS) * time.Millisecond)
	}

	return s, nil
}

// Session returns the writer session id; the log file on disk is named
// after it.
func (s *Server) Session() ksuid.KSUID {
	return s.session
}

// Close ends the writer session and releases the log file and registry.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fsyncStop != nil {
		close(s.fsyncStop)
	}

	err := s.writer.Close()
	if syncErr := s.sink.Sync(); err == nil {
		err = syncErr
	}
	if closeErr := s.file.Close(); err == nil {
		err = closeErr
	}
	if regErr := s.registry.Close(); err == nil {
		err = regErr
	}
	return err
}

func (s *Server) fsyncLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			_ = s.sink.Sync()
			s.mu.Unlock()
		case <-s.fsyncStop:
			return
		}
	}
}

// StartServer builds the server, configures all routes and serves until the
// listener fails.
func StartServer(config ServerConfig) error {
	metrics := NewMetrics()

	server, err := NewServer(config, metrics)
	if err != nil {
		return err
	}
	defer server.Close()

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(config.APIKey, metrics))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Post("/formats", metrics.InstrumentHandler("POST", "/api/v1/formats", server.handleRegisterFormat))
		r.Get("/formats", metrics.InstrumentHandler("GET", "/api/v1/formats", server.handleListFormats))
		r.Post("/records", metrics.InstrumentHandler("POST", "/api/v1/records", server.handleAppendRecord))
	})

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("sdlog ingest server listening on %s (session %s)\n", addr, server.Session())
	return http.ListenAndServe(addr, r)
}
