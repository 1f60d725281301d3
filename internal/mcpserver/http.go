package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPServer exposes the same adapter behind an HTTP endpoint: one JSON-RPC
// request per POST /rpc body, plus a health check.
type HTTPServer struct {
	server  *Server
	addr    string
	logger  *zap.Logger
	httpSrv *http.Server
}

// NewHTTPServer creates an HTTP transport around a stdio server's handler.
func NewHTTPServer(server *Server, addr string, logger *zap.Logger) *HTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPServer{server: server, addr: addr, logger: logger}
}

// Start starts listening. Blocks until the listener fails or Shutdown is
// called.
func (h *HTTPServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", h.handleRPC)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	h.httpSrv = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	h.logger.Info("serving MCP over HTTP", zap.String("addr", h.addr))
	return h.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (h *HTTPServer) Shutdown(ctx context.Context) error {
	if h.httpSrv == nil {
		return nil
	}
	return h.httpSrv.Shutdown(ctx)
}

func (h *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, Response{JSONRPC: "2.0", Error: &RPCError{Code: codeParseError, Message: "parse error"}})
		return
	}

	if len(req.ID) == 0 {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, h.server.Handle(r.Context(), req))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
