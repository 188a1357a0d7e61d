package main

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/nathoo/questcheck/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [world_directory]",
		Short: "Serve check and parameter tools over MCP on stdio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorld(args)
			if err != nil {
				return err
			}
			s.logger.Info("serving world over MCP", "world", s.defs.Name)
			server := mcp.NewServer(s.engine, s.cfg, s.defs.Name, version)
			return server.Run(context.Background(), &sdk.StdioTransport{})
		},
	}
}
