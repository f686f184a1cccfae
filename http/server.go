package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/bookmarker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before shutdown.
const ShutdownTimeout = 5 * time.Second

// maxRequestBytes caps the size of a request body.
const maxRequestBytes = 1 << 20

// Server exposes a MetadataService over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the bind address, for example ":8080".
	Addr string

	MetadataService bookmarker.MetadataService

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	Logger *slog.Logger
}

// NewServer returns a new Server with routes registered.
func NewServer() *Server {
	s := &Server{
		Logger: slog.New(slog.DiscardHandler),
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", s.handleMetrics)
	r.Post("/api/metadata", s.handleExtractMetadata)

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router for use in tests or custom servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open binds to Addr and begins serving in the background.
func (s *Server) Open() (err error) {
	if s.MetadataService == nil {
		return bookmarker.Errorf(bookmarker.EINTERNAL, "metadata service required")
	}
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("serve", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

type metadataRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleExtractMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.MetadataService.ExtractMetadata(r.Context(), req.URL)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps application error codes to HTTP statuses. Bad
// input and pages that could not be turned into metadata are the caller's
// problem; everything else is ours.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := bookmarker.ErrorCode(err)
	if code == bookmarker.EINVALID || bookmarker.IsExtractionFailure(err) {
		s.Logger.Info("metadata request rejected", "code", code, "msg", bookmarker.ErrorMessage(err))
		writeError(w, http.StatusBadRequest, "Invalid url")
		return
	}
	s.Logger.Error("metadata request failed", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "Internal error")
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.MetricsHandler == nil {
		http.NotFound(w, r)
		return
	}
	s.MetricsHandler.ServeHTTP(w, r)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.Logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", w.Header().Get("X-Request-ID"),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
