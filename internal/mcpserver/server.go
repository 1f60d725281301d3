package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Server speaks line-delimited JSON-RPC 2.0 over a reader/writer pair,
// typically stdin/stdout.
type Server struct {
	adapter *Adapter
	version string
	logger  *zap.Logger

	writeMu sync.Mutex
	out     io.Writer
}

// NewServer creates a server around an adapter.
func NewServer(adapter *Adapter, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{adapter: adapter, version: version, logger: logger}
}

// Serve reads requests until EOF or context cancellation. Requests are
// handled concurrently; the registry is read-only so no request-level
// locking is needed, only the output stream is serialized.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var wg sync.WaitGroup
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(Response{JSONRPC: "2.0", Error: &RPCError{Code: codeParseError, Message: fmt.Sprintf("parse error: %v", err)}})
			continue
		}

		if len(req.ID) == 0 {
			// Notification; nothing to answer.
			continue
		}

		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			s.write(s.Handle(ctx, req))
		}(req)
	}
	wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return ctx.Err()
}

// Handle dispatches a single request to the adapter and builds the response.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      serverInfo{Name: "crewmux", Version: s.version},
		}
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = listToolsResult{Tools: s.adapter.ListTools()}
	case "tools/call":
		var params callToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &RPCError{Code: codeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
			break
		}
		resp.Result = s.adapter.CallTool(ctx, params.Name, params.Arguments)
	default:
		resp.Error = &RPCError{Code: codeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}
	return resp
}

func (s *Server) write(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshaling response", zap.Error(err))
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.out.Write(data)
	s.out.Write([]byte("\n"))
}
