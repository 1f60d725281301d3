// Package discovery collects the flat tool catalog from upstream MCP
// servers.
package discovery

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/fentz26/crewmux/internal/models"
)

// Client is a JSON-RPC 2.0 stdio client for one upstream MCP server.
type Client struct {
	serverName string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	scanner    *bufio.Scanner

	requestID atomic.Int64
	pending   sync.Map // map[int64]chan *rpcResponse
	writeMu   sync.Mutex
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewClient spawns the server process and performs the initialize
// handshake. The serverName tags every discovered tool.
func NewClient(serverName, command string, args []string, env map[string]string) (*Client, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start server %q: %w", serverName, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	c := &Client{
		serverName: serverName,
		cmd:        cmd,
		stdin:      stdin,
		scanner:    scanner,
	}
	go c.readResponses()

	if err := c.initialize(); err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize %q: %w", serverName, err)
	}
	return c, nil
}

func (c *Client) readResponses() {
	for c.scanner.Scan() {
		line := c.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp rpcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if ch, ok := c.pending.LoadAndDelete(resp.ID); ok {
			ch.(chan *rpcResponse) <- &resp
		}
	}
}

func (c *Client) send(ctx context.Context, req *rpcRequest) (*rpcResponse, error) {
	ch := make(chan *rpcResponse, 1)
	c.pending.Store(req.ID, ch)

	data, err := json.Marshal(req)
	if err != nil {
		c.pending.Delete(req.ID)
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.stdin.Write(append(data, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.pending.Delete(req.ID)
		return nil, fmt.Errorf("write request: %w", err)
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp, nil
	case <-ctx.Done():
		c.pending.Delete(req.ID)
		return nil, ctx.Err()
	}
}

func (c *Client) initialize() error {
	req := &rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  "initialize",
		Params: map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]any{},
			"clientInfo":      map[string]any{"name": "crewmux", "version": "1.0.0"},
		},
	}
	if _, err := c.send(context.Background(), req); err != nil {
		return err
	}

	notif := &rpcRequest{JSONRPC: "2.0", Method: "notifications/initialized"}
	data, _ := json.Marshal(notif)
	c.writeMu.Lock()
	c.stdin.Write(append(data, '\n'))
	c.writeMu.Unlock()
	return nil
}

// ListTools fetches the server's tool list, tagged with the configured
// server name.
func (c *Client) ListTools(ctx context.Context) ([]models.Tool, error) {
	req := &rpcRequest{JSONRPC: "2.0", ID: c.requestID.Add(1), Method: "tools/list"}
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tools []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal tools: %w", err)
	}

	tools := make([]models.Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		tools = append(tools, models.Tool{
			ServerName:  c.serverName,
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return tools, nil
}

// Close terminates the server process.
func (c *Client) Close() error {
	c.stdin.Close()
	if c.cmd.Process != nil {
		c.cmd.Process.Kill()
	}
	return c.cmd.Wait()
}
