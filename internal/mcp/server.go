// Package mcp exposes the tool dispatcher over the Model Context Protocol
// using the Streamable HTTP transport.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maraichr/gradient/internal/auth"
	"github.com/maraichr/gradient/internal/mcp/tools"
)

const (
	serverName    = "beautiful-gradient-mcp"
	serverVersion = "1.0.0"
)

// Server wraps the SDK server with the gradient tools registered.
type Server struct {
	sdk        *sdkmcp.Server
	dispatcher *tools.Dispatcher
	logger     *slog.Logger
}

// NewServer registers every dispatcher tool on a new SDK server.
func NewServer(d *tools.Dispatcher, logger *slog.Logger) *Server {
	s := &Server{
		sdk:        sdkmcp.NewServer(&sdkmcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		dispatcher: d,
		logger:     logger,
	}
	for _, t := range d.Tools() {
		s.sdk.AddTool(t, s.toolHandler(t.Name))
	}
	s.sdk.AddReceivingMiddleware(s.unknownTools)
	logger.Info("mcp tools registered", slog.Int("count", len(d.Tools())))
	return s
}

// SDK returns the underlying SDK server.
func (s *Server) SDK() *sdkmcp.Server {
	return s.sdk
}

// Handler returns a stateless Streamable HTTP handler. Stale session ids
// from earlier server instances are ignored instead of answered with 404.
func (s *Server) Handler() http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return s.sdk },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)
}

func (s *Server) toolHandler(name string) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		return s.dispatch(ctx, name, req), nil
	}
}

// unknownTools answers calls to unregistered tools with an error-flagged
// result instead of the SDK's protocol error.
func (s *Server) unknownTools(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
	return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		if method != "tools/call" {
			return next(ctx, method, req)
		}
		call, ok := req.(*sdkmcp.CallToolRequest)
		if !ok || call.Params == nil || s.registered(call.Params.Name) {
			return next(ctx, method, req)
		}
		return s.dispatch(ctx, call.Params.Name, call), nil
	}
}

func (s *Server) registered(name string) bool {
	for _, t := range s.dispatcher.Tools() {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (s *Server) dispatch(ctx context.Context, name string, req *sdkmcp.CallToolRequest) *sdkmcp.CallToolResult {
	var principal *auth.Principal
	if req.Extra != nil {
		principal = auth.PrincipalFromTokenInfo(req.Extra.TokenInfo)
	}
	var args []byte
	if req.Params != nil {
		args = req.Params.Arguments
	}
	return s.dispatcher.Dispatch(ctx, name, args, principal).CallToolResult()
}
