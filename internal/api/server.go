// Package api provides REST API endpoints for parsing and submitting dispatch
// requests.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/engine"
	"dispatch_parser/internal/intake"
	"dispatch_parser/internal/storage"
)

// maxBodyBytes bounds request bodies; dispatch texts are a few kilobytes.
const maxBodyBytes = 1 << 20

// Server serves the dispatch parsing API.
type Server struct {
	engine      *engine.Engine
	service     *intake.Service // Nil when storage is disabled.
	metrics     http.Handler
	logger      zerolog.Logger
	port        int
	authEnabled bool
	apiKeys     map[string]bool // Simple API key auth (when enabled).
}

// Config holds configuration for the API server.
type Config struct {
	Port    int
	APIKeys []string // Authentication is enabled when any key is set.
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request and error logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server. svc may be nil, in which case only the
// parse-only endpoints are available.
func NewServer(e *engine.Engine, svc *intake.Service, cfg Config, opts ...Option) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = true
		}
	}

	s := &Server{
		engine:      e,
		service:     svc,
		logger:      zerolog.Nop(),
		port:        cfg.Port,
		authEnabled: len(keys) > 0,
		apiKeys:     keys,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", srv.Addr).
			Bool("auth", s.authEnabled).
			Bool("storage", s.service != nil).
			Msg("dispatch API starting")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Router returns the configured chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for the browser intake form.
	r.Use(corsMiddleware)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required).
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.authEnabled {
				r.Use(s.authMiddleware)
			}

			r.Post("/parse", s.handleParse)
			r.Post("/trace", s.handleTrace)
			r.Post("/submit", s.handleSubmit)
			r.Post("/fields", s.handleFields)

			r.Get("/submissions", s.handleListSubmissions)
			r.Get("/submissions/{key}", s.handleGetSubmission)
			r.Put("/submissions/{key}/status", s.handleSetStatus)
		})
	})

	return r
}

// requestLogger logs each request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Auth failures, reported in the error body.
const (
	errKeyRequired = "dispatch API key required in X-API-Key or Authorization: Bearer"
	errKeyRejected = "API key is not allowed to submit dispatch requests"
)

// corsMiddleware lets browser forms post dispatch requests. Preflight requests
// are answered here and never reach the router.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")
		h.Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestKey returns the key from X-API-Key, or from a Bearer token.
func requestKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if key, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(key)
	}
	return ""
}

// authMiddleware admits requests carrying one of the configured API keys.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := requestKey(r)
		if key == "" {
			writeError(w, http.StatusUnauthorized, errKeyRequired)
			return
		}
		if !s.apiKeys[key] {
			s.logger.Warn().
				Str("path", r.URL.Path).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("rejected API key")
			writeError(w, http.StatusForbidden, errKeyRejected)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ParseResponse is the JSON response for parse-only requests.
type ParseResponse struct {
	Headers []string       `json:"headers"`
	Row     []string       `json:"row"`
	Result  *engine.Result `json:"result"`
}

// FieldsRequest carries a pre-split submission either as typed fields or as
// raw form columns keyed by question title.
type FieldsRequest struct {
	Fields  *dispatch.Fields  `json:"fields,omitempty"`
	Columns map[string]string `json:"columns,omitempty"`
}

// StatusRequest sets a submission's status.
type StatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"time":       time.Now().UTC().Format(time.RFC3339),
		"strategies": s.engine.Strategies(),
		"storage":    s.service != nil,
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.engine.ParseText(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Msg("parse failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		Headers: dispatch.Headers,
		Row:     res.Record.Row(0),
		Result:  res,
	})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Trace(req))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	receipt, err := s.service.SubmitText(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("contract_no", req.ContractNo).Msg("submit failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeReceipt(w, receipt)
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	var req FieldsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	fields := req.Fields
	if fields == nil {
		if len(req.Columns) == 0 {
			writeError(w, http.StatusBadRequest, "fields or columns required")
			return
		}
		f := dispatch.FieldsFromColumns(req.Columns)
		fields = &f
	}

	receipt, err := s.service.SubmitFields(r.Context(), fields)
	var verr *dispatch.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   verr.Error(),
			"receipt": receipt,
		})
	case err != nil:
		s.logger.Error().Err(err).Str("contract_no", fields.ContractNo).Msg("form submit failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeReceipt(w, receipt)
	}
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	q := r.URL.Query()
	p := storage.ListParams{ContractNo: q.Get("contract_no")}
	if v := q.Get("status"); v != "" {
		st, err := dispatch.ParseStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.Status = st
	}
	if v := q.Get("limit"); v != "" {
		p.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		p.Offset, _ = strconv.Atoi(v)
	}

	subs, err := s.service.List(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if subs == nil {
		subs = []storage.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	sub, err := s.service.Get(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	status, err := dispatch.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := chi.URLParam(r, "key")
	err = s.service.SetStatus(r.Context(), key, status)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "status": string(status)})
}

// Helper functions.

func (s *Server) requireStorage(w http.ResponseWriter) bool {
	if s.service == nil {
		writeError(w, http.StatusServiceUnavailable, "Storage is disabled")
		return false
	}
	return true
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*dispatch.Request, bool) {
	var req dispatch.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return nil, false
	}
	return &req, true
}

func writeReceipt(w http.ResponseWriter, receipt *intake.Receipt) {
	status := http.StatusCreated
	if receipt.Replay {
		status = http.StatusOK
	}
	writeJSON(w, status, receipt)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
