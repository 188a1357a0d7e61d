// Package mcp exposes the checker to editor tooling as Model Context
// Protocol tools.
package mcp

import (
	"context"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nathoo/questcheck/config"
	"github.com/nathoo/questcheck/engine"
)

// Server serves one loaded world. Tool calls are serialized because the
// engine is not safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	cfg    *config.Config
	world  string
	mcp    *sdk.Server
}

// NewServer registers the tools for world on a new MCP server. A nil cfg
// uses the defaults.
func NewServer(eng *engine.Engine, cfg *config.Config, world, version string) *Server {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	s := &Server{
		engine: eng,
		cfg:    cfg,
		world:  world,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "questcheck",
			Version: version,
		}, nil),
	}
	eng.SetSuggest(cfg.Suggest)
	s.registerTools()
	return s
}

// Run serves tool calls on transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
