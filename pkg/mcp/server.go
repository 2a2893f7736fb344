// Package mcp exposes image conversion as a Model Context Protocol tool.
// Messages are JSON-RPC 2.0 objects, one per line, read from and written to
// a stream pair (stdin and stdout for a spawned server).
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"vectrace/pkg/log"
	"vectrace/pkg/vectorize"
)

// ProtocolVersion is the MCP revision the server speaks.
const ProtocolVersion = "2024-11-05"

// ToolName is the only tool the server offers.
const ToolName = "convert_image_to_svg"

// JSON-RPC error codes.
const (
	codeParse          = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeConversion     = -32000
)

const maxMessage = 4 << 20

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("%d: %s", e.Code, e.Message) }

// Server answers initialize, tools/list and tools/call.
type Server struct {
	base    vectorize.Options
	maxSize int
	version string
}

// NewServer returns a server whose conversions start from base. Tool
// arguments override single fields of it.
func NewServer(base vectorize.Options, maxSize int, version string) *Server {
	return &Server{base: base, maxSize: maxSize, version: version}
}

// Serve handles messages from r until it is exhausted or ctx is done.
// Requests are answered in order; notifications get no reply.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	logger := log.WithOperation(log.WithComponent("mcp"), "serve")
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxMessage)
	enc := json.NewEncoder(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		resp, ok := s.handle(ctx, []byte(line))
		if !ok {
			continue
		}
		if resp.Error != nil {
			logger.Debug("request failed", "code", resp.Error.Code, "error", resp.Error.Message)
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("mcp: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return ctx.Err()
}

// handle answers one message. ok is false for notifications.
func (s *Server) handle(ctx context.Context, msg []byte) (resp response, ok bool) {
	resp.JSONRPC = "2.0"
	resp.ID = json.RawMessage("null")

	var req request
	if err := json.Unmarshal(msg, &req); err != nil {
		resp.Error = &rpcError{Code: codeParse, Message: "parse error: " + err.Error()}
		return resp, true
	}
	if len(req.ID) == 0 {
		return resp, false
	}
	resp.ID = req.ID
	if req.Method == "" {
		resp.Error = &rpcError{Code: codeInvalidRequest, Message: "missing method"}
		return resp, true
	}

	var err error
	switch req.Method {
	case "initialize":
		resp.Result = s.initialize()
	case "ping":
		resp.Result = struct{}{}
	case "tools/list":
		resp.Result = map[string]any{"tools": []tool{convertTool}}
	case "tools/call":
		resp.Result, err = s.call(ctx, req.Params)
	default:
		err = &rpcError{Code: codeMethodNotFound, Message: "unknown method: " + req.Method}
	}
	if err != nil {
		var rerr *rpcError
		if !errors.As(err, &rerr) {
			rerr = &rpcError{Code: codeConversion, Message: err.Error()}
		}
		resp.Result, resp.Error = nil, rerr
	}
	return resp, true
}

func (s *Server) initialize() map[string]any {
	return map[string]any{
		"protocolVersion": ProtocolVersion,
		"serverInfo":      map[string]string{"name": "vectrace", "version": s.version},
		"capabilities": map[string]any{
			"tools": map[string]bool{"listChanged": false},
		},
	}
}
