package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yflink/linkswap/internal/core/tx"
)

// Handler executes a single RPC method.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, *Error)

// EnvSource supplies the execution environment stamped onto submitted
// transactions.
type EnvSource interface {
	Env() tx.Env
}

// Server handles HTTP JSON-RPC requests.
// Format: {"method": "method_name", "params": [{...}]}
type Server struct {
	engine  *tx.Engine
	envs    EnvSource
	log     *zap.Logger
	methods map[string]Handler
	metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetricsRegistry exposes the registry's metrics under /metrics.
func WithMetricsRegistry(r *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = promhttp.HandlerFor(r, promhttp.HandlerOpts{})
	}
}

// NewServer creates an RPC server executing against engine.
func NewServer(engine *tx.Engine, envs EnvSource, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		envs:   envs,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.methods = map[string]Handler{
		"submit":       s.handleSubmit,
		"token_info":   s.handleTokenInfo,
		"pair_info":    s.handlePairInfo,
		"factory_info": s.handleFactoryInfo,
		"oracle_info":  s.handleOracleInfo,
		"all_pairs":    s.handleAllPairs,
	}
	return s
}

// Error is a JSON-RPC method error.
type Error struct {
	Code    string `json:"error"`
	Message string `json:"error_message"`
}

func rpcError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

type request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Handler returns the full HTTP handler including /metrics when enabled.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("rpc server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, "internal", "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}
	if req.Method == "" {
		s.writeError(w, "missingCommand", "Missing method field")
		return
	}

	var params json.RawMessage
	if len(req.Params) > 0 {
		params = req.Params[0]
	}

	handler, ok := s.methods[req.Method]
	if !ok {
		s.writeError(w, "unknownCmd", "Unknown method: "+req.Method)
		return
	}

	start := time.Now()
	result, rpcErr := handler(r.Context(), params)
	s.log.Debug("rpc method executed",
		zap.String("method", req.Method),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", rpcErr == nil))

	if rpcErr != nil {
		s.writeResult(w, map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.Code,
			"error_message": rpcErr.Message,
		})
		return
	}
	s.writeResult(w, result)
}

func (s *Server) writeResult(w http.ResponseWriter, result interface{}) {
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"result": result}); err != nil {
		s.log.Error("failed to encode rpc response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string) {
	s.writeResult(w, map[string]interface{}{
		"status":        "error",
		"error":         code,
		"error_message": message,
	})
}
