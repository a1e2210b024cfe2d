// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package mcp implements the stdio Model Context Protocol surface:
// newline-delimited JSON-RPC 2.0 requests on stdin, responses on
// stdout. It is peripheral glue over the query engine; all caching and
// search semantics live below it.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/query"
)

// maxLineBytes bounds a single request line. The MVG payload itself can
// be a few hundred KB, requests are tiny.
const maxLineBytes = 1 << 20

// Tool and resource names.
const (
	ToolGetIncidents   = "get_mvg_incidents"
	ToolGetCacheStatus = "get_cache_status"
	ToolSearch         = "search_incidents"

	ResourceIncidents = "mvg://incidents"
	ResourceCacheInfo = "mvg://cache-info"
)

// Server serves the MCP handshake, tools and resources over a
// reader/writer pair (stdin/stdout in production, pipes in tests).
type Server struct {
	name    string
	version string
	engine  *query.Engine
	in      io.Reader
	out     io.Writer

	// wmu serializes response writes; handlers may run from concurrent
	// callers in the HTTP+stdio combination.
	wmu sync.Mutex
}

// NewServer builds a server around the engine.
func NewServer(name, version string, engine *query.Engine, in io.Reader, out io.Writer) *Server {
	return &Server{
		name:    name,
		version: version,
		engine:  engine,
		in:      in,
		out:     out,
	}
}

// Run reads requests until EOF or context cancellation. Malformed lines
// get a parse error response; they never kill the loop.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			log.Debugf("unparseable request: %v", err)
			s.write(&response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &rpcError{Code: codeParseError, Message: "parse error"},
			})
			continue
		}

		if resp := s.handle(ctx, &req); resp != nil {
			s.write(resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request stream: %w", err)
	}
	return nil
}

// handle dispatches one request. It returns nil for notifications.
func (s *Server) handle(ctx context.Context, req *request) *response {
	log.Debugf("handling %s", req.Method)

	var (
		result interface{}
		err    *rpcError
	)

	switch req.Method {
	case "initialize":
		result = initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities: map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
			},
			ServerInfo: serverInfo{Name: s.name, Version: s.version},
		}
	case "ping":
		result = map[string]interface{}{}
	case "notifications/initialized", "notifications/cancelled":
		return nil
	case "tools/list":
		result = map[string]interface{}{"tools": s.Tools()}
	case "tools/call":
		result, err = s.callTool(ctx, req.Params)
	case "resources/list":
		result = map[string]interface{}{"resources": s.Resources()}
	case "resources/read":
		result, err = s.readResource(ctx, req.Params)
	default:
		err = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}

	if req.isNotification() {
		return nil
	}

	resp := &response{JSONRPC: "2.0", ID: req.ID}
	if err != nil {
		resp.Error = err
	} else {
		resp.Result = result
	}
	return resp
}

// Tools lists the callable tools.
func (s *Server) Tools() []Tool {
	return []Tool{
		{
			Name:        ToolGetIncidents,
			Description: "Get current MVG incidents (cached for 10+ minutes)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"force_refresh": map[string]interface{}{
						"type":        "boolean",
						"description": "Force refresh cache even if not expired",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        ToolGetCacheStatus,
			Description: "Get information about the cache status",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        ToolSearch,
			Description: "Search incidents by line, title, or description",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Search query (searches in title, description, and line labels)",
					},
					"line": map[string]interface{}{
						"type":        "string",
						"description": "Filter by specific line (e.g., 'U6', 'S1', 'Bus 100')",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// Resources lists the readable resources.
func (s *Server) Resources() []Resource {
	return []Resource{
		{
			URI:         ResourceIncidents,
			Name:        "MVG Incidents",
			Description: "Current incidents from Munich Public Transport (MVG)",
			MimeType:    "application/json",
		},
		{
			URI:         ResourceCacheInfo,
			Name:        "Cache Information",
			Description: "Information about the current cache status",
			MimeType:    "application/json",
		},
	}
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (interface{}, *rpcError) {
	var params callParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "invalid tool call params"}
	}

	args := map[string]interface{}{}
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid tool arguments"}
		}
	}

	switch params.Name {
	case ToolGetIncidents:
		force, _ := args["force_refresh"].(bool)
		incidents, err := s.engine.GetIncidents(ctx, force)
		if err != nil {
			return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
		}
		return textResult(map[string]interface{}{
			"incidents":  incidents,
			"count":      len(incidents),
			"cache_info": s.engine.CacheStatus(),
		})
	case ToolGetCacheStatus:
		return textResult(s.engine.CacheStatus())
	case ToolSearch:
		queryStr, _ := args["query"].(string)
		line, _ := args["line"].(string)
		result, err := s.engine.Search(ctx, queryStr, line)
		if err != nil {
			if errors.Is(err, query.ErrMissingQuery) {
				return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
			}
			return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
		}
		return textResult(result)
	default:
		return nil, &rpcError{Code: codeInvalidParams, Message: "unknown tool: " + params.Name}
	}
}

func (s *Server) readResource(ctx context.Context, raw json.RawMessage) (interface{}, *rpcError) {
	var params readParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "invalid resource read params"}
	}

	var payload interface{}
	switch params.URI {
	case ResourceIncidents:
		incidents, err := s.engine.GetIncidents(ctx, false)
		if err != nil {
			return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
		}
		payload = incidents
	case ResourceCacheInfo:
		payload = s.engine.CacheStatus()
	default:
		return nil, &rpcError{Code: codeInvalidParams, Message: "unknown resource: " + params.URI}
	}

	text, err := marshalPretty(payload)
	if err != nil {
		return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
	}

	return resourceContents{
		Contents: []resourceText{{
			URI:      params.URI,
			MimeType: "application/json",
			Text:     text,
		}},
	}, nil
}

// textResult wraps a payload as a single pretty-printed text content
// block.
func textResult(payload interface{}) (interface{}, *rpcError) {
	text, err := marshalPretty(payload)
	if err != nil {
		return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
	}
	return toolResult{
		Content: []TextContent{{Type: "text", Text: text}},
	}, nil
}

// marshalPretty indents and keeps umlauts readable instead of escaping
// them.
func marshalPretty(payload interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// write emits one response line.
func (s *Server) write(resp *response) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	enc := json.NewEncoder(s.out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}
