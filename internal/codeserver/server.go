package codeserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/iotc-provision/provision-go/pkg/credential"
	"github.com/iotc-provision/provision-go/pkg/iotc"
)

// Server defaults.
const (
	DefaultCodeTTL      = 10 * time.Minute
	DefaultMaxTTL       = 24 * time.Hour
	DefaultDigits       = 6
	DefaultRedeemRate   = 5
	DefaultRedeemBurst  = 10
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second

	maxBodySize = 64 * 1024
)

// Config configures a Server. Zero values use the defaults.
type Config struct {
	ListenAddr string
	Log        *slog.Logger

	CodeTTL time.Duration
	MaxTTL  time.Duration
	Digits  int

	// RedeemRate and RedeemBurst throttle code exchanges across all
	// clients. A negative RedeemRate disables throttling.
	RedeemRate  float64
	RedeemBurst int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.CodeTTL <= 0 {
		c.CodeTTL = DefaultCodeTTL
	}
	if c.MaxTTL <= 0 {
		c.MaxTTL = DefaultMaxTTL
	}
	if c.Digits == 0 {
		c.Digits = DefaultDigits
	}
	if c.RedeemRate == 0 {
		c.RedeemRate = DefaultRedeemRate
	}
	if c.RedeemBurst <= 0 {
		c.RedeemBurst = DefaultRedeemBurst
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// IssueRequest is the body of POST /api/codes.
type IssueRequest struct {
	UserID      string                 `json:"user_id"`
	Credentials credential.Credentials `json:"credentials"`
	TTLSeconds  int                    `json:"ttl_seconds,omitempty"`

	// GroupKey is an enrollment group key. When set, the device key is
	// derived from it and credentials.deviceKey must be empty.
	GroupKey string `json:"group_key,omitempty"`
}

// IssueResponse is returned for a newly issued code.
type IssueResponse struct {
	Code      string    `json:"code"`
	QR        string    `json:"qr"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedeemResponse is returned when a code is exchanged.
type RedeemResponse struct {
	Payload string `json:"payload"`
}

// Server serves the code API.
type Server struct {
	cfg     Config
	log     *slog.Logger
	codes   *CodeStore
	limiter *rate.Limiter
	isReady atomic.Bool

	srv *http.Server
}

// New creates a server. It does not start listening.
func New(cfg Config) (*Server, error) {
	cfg.applyDefaults()

	codes, err := NewCodeStore(cfg.Digits)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:   cfg,
		log:   cfg.Log,
		codes: codes,
	}
	if cfg.RedeemRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RedeemRate), cfg.RedeemBurst)
	}
	s.isReady.Store(true)

	s.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Codes returns the backing code store.
func (s *Server) Codes() *CodeStore {
	return s.codes
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	mux.With(s.httpLogger).Post("/api/codes", s.handleIssue)
	mux.With(s.httpLogger).Get("/api/codes/{code}", s.handleRedeem)

	mux.Get("/livez", s.handleLivenessCheck)
	mux.Get("/readyz", s.handleReadinessCheck)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("code server listening", "addr", s.cfg.ListenAddr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.isReady.Store(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("code server stopped")
	return nil
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.codes.Sweep(); n > 0 {
				s.log.Debug("swept codes", "count", n)
			}
		}
	}
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", routePattern(r),
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// routePattern avoids logging codes in request paths.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return r.URL.Path
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ttl := s.cfg.CodeTTL
	switch {
	case req.TTLSeconds < 0:
		writeError(w, http.StatusBadRequest, "ttl_seconds must not be negative")
		return
	case int64(req.TTLSeconds) > int64(s.cfg.MaxTTL/time.Second):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("ttl exceeds maximum of %s", s.cfg.MaxTTL))
		return
	case req.TTLSeconds > 0:
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}
	if ttl > s.cfg.MaxTTL {
		ttl = s.cfg.MaxTTL
	}

	creds := req.Credentials
	if req.GroupKey != "" {
		if creds.DeviceKey != "" {
			writeError(w, http.StatusBadRequest, "deviceKey and group_key are mutually exclusive")
			return
		}
		key, err := iotc.DeriveDeviceKey(req.GroupKey, creds.DeviceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		creds.DeviceKey = key
	}

	payload, err := credential.Seal(creds, credential.UserIdentity{ID: req.UserID})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code, expires, err := s.codes.Issue(payload, ttl)
	if err != nil {
		s.log.Error("failed to issue code", "err", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.log.Info("issued code", "code", code.Masked(), "device_id", req.Credentials.DeviceID, "expires_at", expires)
	writeJSON(w, http.StatusCreated, IssueResponse{
		Code:      code.String(),
		QR:        credential.QRText(payload),
		ExpiresAt: expires.UTC(),
	})
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	code, err := credential.ParseVerificationCode(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusNotFound, ErrUnknownCode.Error())
		return
	}

	payload, err := s.codes.Redeem(code)
	switch {
	case errors.Is(err, ErrUnknownCode):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, ErrExpiredCode):
		writeError(w, http.StatusGone, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.Info("redeemed code", "code", code.Masked())
	writeJSON(w, http.StatusOK, RedeemResponse{Payload: payload.String()})
}

func (s *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
