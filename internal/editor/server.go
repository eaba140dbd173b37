// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package editor hosts the browser-based schema editor service and the
// client flow that drives it.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/tombee/nf-schema-builder/internal/httputil"
	"github.com/tombee/nf-schema-builder/internal/log"
)

// Options configures the editor service.
type Options struct {
	// Host to bind to. Default: localhost. The service is intended for
	// local editing only; it carries no authentication.
	Host string
	// Port to listen on. 0 picks an ephemeral free port.
	Port int
	// SchemaFile is the schema document the editor reads and writes.
	SchemaFile string
	// Logger for service logs. Default: a discarding-free default logger.
	Logger *slog.Logger
}

// Server is the schema editor synchronization service. It exposes the
// schema file over a small JSON API, serves the embedded editor page,
// and reports session progress through three one-shot signals:
// ready (listener bound), saved (schema written at least once) and
// finished (user ended the session). Signals never reset.
type Server struct {
	host       string
	port       int
	schemaFile string
	logger     *slog.Logger

	mux     *http.ServeMux
	httpSrv *http.Server
	metrics *metrics

	ready    *latch
	saved    *latch
	finished *latch
}

// NewServer creates an editor service for the given schema file.
func NewServer(opts Options) *Server {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(nil)
	}

	s := &Server{
		host:       opts.Host,
		port:       opts.Port,
		schemaFile: filepath.Clean(opts.SchemaFile),
		logger:     log.WithComponent(opts.Logger, "editor"),
		mux:        http.NewServeMux(),
		metrics:    newMetrics(),
		ready:      newLatch(),
		saved:      newLatch(),
		finished:   newLatch(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/schema", s.handleGetSchema)
	s.mux.HandleFunc("POST /api/schema", s.handleSaveSchema)
	s.mux.HandleFunc("POST /api/finish", s.handleFinish)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.handler())

	return s
}

// ServeHTTP implements http.Handler, wrapping the mux with request
// logging and metrics.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	logger := log.WithRequestID(s.logger, uuid.NewString())

	s.metrics.requests.WithLabelValues(req.Method, req.URL.Path).Inc()

	defer func() {
		logger.Debug("request completed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int64(log.DurationKey, time.Since(start).Milliseconds()),
		)
	}()

	s.mux.ServeHTTP(w, req)
}

// Start binds the listener and begins serving on a background
// goroutine. Binding happens synchronously so a failure (port in use,
// bad host) is returned immediately instead of leaving the caller to
// time out. The returned Handle is the only way to interact with the
// running service.
func (s *Server) Start(ctx context.Context) (*Handle, error) {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding editor service to %s: %w", addr, err)
	}

	s.httpSrv = &http.Server{Handler: s}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("schema file watcher unavailable", log.Error(err))
		watcher = nil
	} else if err := watcher.Add(filepath.Dir(s.schemaFile)); err != nil {
		s.logger.Warn("cannot watch schema directory", log.Error(err))
		watcher.Close()
		watcher = nil
	}

	handle := &Handle{server: s, addr: ln.Addr(), watcher: watcher}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("editor service stopped", log.Error(err))
		}
	}()
	if watcher != nil {
		go s.watchSchemaFile(watcher)
	}

	s.ready.Set()
	s.logger.Info("editor service started",
		slog.String("addr", ln.Addr().String()),
		slog.String(log.SchemaFileKey, s.schemaFile))

	return handle, nil
}

// watchSchemaFile latches the saved signal when the schema file is
// rewritten outside the save endpoint (another browser tab, an external
// editor). The loop exits when the watcher is closed.
func (s *Server) watchSchemaFile(watcher *fsnotify.Watcher) {
	target := filepath.Clean(s.schemaFile)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				s.logger.Debug("schema file changed on disk")
				s.saved.Set()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Debug("schema watcher error", log.Error(err))
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(IndexHTML()); err != nil {
		s.logger.Debug("failed to write editor page", log.Error(err))
	}
}

func (s *Server) handleGetSchema(w http.ResponseWriter, _ *http.Request) {
	data, err := os.ReadFile(s.schemaFile)
	if err != nil {
		if os.IsNotExist(err) {
			httputil.WriteError(w, http.StatusNotFound, fmt.Sprintf("Schema file not found: %s", s.schemaFile))
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading schema: %v", err))
		return
	}

	var schemaData any
	if err := json.Unmarshal(data, &schemaData); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading schema: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": httputil.StatusSuccess,
		"type":   "schema_update",
		"data":   schemaData,
	})
}

func (s *Server) handleSaveSchema(w http.ResponseWriter, req *http.Request) {
	var schemaData any
	if err := json.NewDecoder(req.Body).Decode(&schemaData); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	data, err := json.MarshalIndent(schemaData, "", "  ")
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving schema: %v", err))
		return
	}

	// Write through a temp file and rename so the schema file always
	// holds a complete document, even if a writer dies mid-save.
	tmp, err := os.CreateTemp(filepath.Dir(s.schemaFile), ".nfsb-*.json")
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving schema: %v", err))
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving schema: %v", err))
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving schema: %v", err))
		return
	}
	if err := os.Rename(tmpName, s.schemaFile); err != nil {
		os.Remove(tmpName)
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving schema: %v", err))
		return
	}

	s.saved.Set()
	s.metrics.saves.Inc()
	s.logger.Info("schema saved", slog.String(log.SchemaFileKey, s.schemaFile))

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  httputil.StatusSuccess,
		"message": "Schema saved successfully",
	})
}

func (s *Server) handleFinish(w http.ResponseWriter, _ *http.Request) {
	s.finished.Set()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  httputil.StatusSuccess,
		"message": "Finished successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, err := os.Stat(s.schemaFile)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"schema_file":   s.schemaFile,
		"schema_exists": err == nil,
		"saved":         s.saved.IsSet(),
		"finished":      s.finished.IsSet(),
	})
}

// Handle is the foreground side of a running editor service. It is
// returned by Start and threaded explicitly to every later interaction;
// there is no package-level service instance.
type Handle struct {
	server  *Server
	addr    net.Addr
	watcher *fsnotify.Watcher

	shutdownOnce sync.Once
	shutdownErr  error
}

// Addr returns the bound listener address (host:port).
func (h *Handle) Addr() string {
	return h.addr.String()
}

// URL returns the service's base URL.
func (h *Handle) URL() string {
	return "http://" + h.addr.String()
}

// WaitReady blocks until the service accepts connections, or the
// timeout elapses. It reports whether the service became ready.
func (h *Handle) WaitReady(timeout time.Duration) bool {
	return h.server.ready.WaitTimeout(timeout)
}

// WaitSaved blocks until the schema has been written at least once.
func (h *Handle) WaitSaved(ctx context.Context) error {
	return h.server.saved.Wait(ctx)
}

// WaitFinished blocks until the user explicitly ends the session.
func (h *Handle) WaitFinished(ctx context.Context) error {
	return h.server.finished.Wait(ctx)
}

// Saved reports whether the schema has been written during this session.
func (h *Handle) Saved() bool {
	return h.server.saved.IsSet()
}

// Finished reports whether the session has been explicitly ended.
func (h *Handle) Finished() bool {
	return h.server.finished.IsSet()
}

// Shutdown tears the service down: the listener stops accepting, inflight
// requests drain within the context deadline, and the file watcher is
// released. Safe to call more than once.
func (h *Handle) Shutdown(ctx context.Context) error {
	h.shutdownOnce.Do(func() {
		if h.watcher != nil {
			h.watcher.Close()
		}
		h.shutdownErr = h.server.httpSrv.Shutdown(ctx)
		h.server.logger.Info("editor service stopped")
	})
	return h.shutdownErr
}
