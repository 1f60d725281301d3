package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	adapter := NewAdapter(testRegistry(t), &echoExecutor{}, CallSchemaPrompt, nil)
	return NewServer(adapter, "test", nil)
}

func request(t *testing.T, id int, method string, params any) Request {
	t.Helper()
	req := Request{JSONRPC: "2.0", ID: json.RawMessage(jsonNumber(id)), Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("marshal params: %v", err)
		}
		req.Params = data
	}
	return req
}

func jsonNumber(id int) []byte {
	data, _ := json.Marshal(id)
	return data
}

func TestHandle_Initialize(t *testing.T) {
	srv := testServer(t)

	resp := srv.Handle(context.Background(), request(t, 1, "initialize", nil))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(initializeResult)
	if result.ProtocolVersion != protocolVersion || result.ServerInfo.Name != "crewmux" {
		t.Errorf("unexpected initialize result %+v", result)
	}
}

func TestHandle_ToolsList(t *testing.T) {
	srv := testServer(t)

	resp := srv.Handle(context.Background(), request(t, 2, "tools/list", nil))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(listToolsResult)
	if len(result.Tools) != 2 {
		t.Errorf("expected 2 tools, got %d", len(result.Tools))
	}
}

func TestHandle_ToolsCall(t *testing.T) {
	srv := testServer(t)

	resp := srv.Handle(context.Background(), request(t, 3, "tools/call", callToolParams{
		Name:      "agent_vcs",
		Arguments: map[string]any{"prompt": "commit"},
	}))
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(CallResult)
	if result.IsError || result.Content[0].Text != "echo: commit" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestHandle_ToolsCall_UnknownAgent(t *testing.T) {
	srv := testServer(t)

	resp := srv.Handle(context.Background(), request(t, 4, "tools/call", callToolParams{
		Name:      "agent_nope",
		Arguments: map[string]any{"prompt": "hi"},
	}))
	result := resp.Result.(CallResult)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "not found") {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestHandle_UnknownMethod(t *testing.T) {
	srv := testServer(t)

	resp := srv.Handle(context.Background(), request(t, 5, "resources/list", nil))
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("expected method-not-found, got %+v", resp.Error)
	}
}

func TestServe_RoundTrip(t *testing.T) {
	srv := testServer(t)

	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n",
	)
	var out bytes.Buffer

	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 response (notification is silent), got %d: %q", len(lines), out.String())
	}

	var resp struct {
		ID     int `json:"id"`
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID != 1 || resp.Result.ProtocolVersion != protocolVersion {
		t.Errorf("unexpected response %+v", resp)
	}
}
