package main

import (
	"log"
	"os"
	"strings"

	"github.com/aretw0/actionbridge"
	"github.com/aretw0/actionbridge/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes script evaluation to MCP clients over standard input/output.

Tools:
- evaluate_script: evaluate a JSON script with optional JSON data
- validate_script: validate a JSON script`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := settings(cmd)
		if err != nil {
			return err
		}
		bridge, err := newBridge(cfg, logger)
		if err != nil {
			return err
		}

		// Keep stray log output off the JSON-RPC stream.
		log.SetOutput(os.Stderr)

		srv := mcp.NewServer(bridge.Handler(), bridge.Engine(), strings.TrimSpace(actionbridge.Version), mcp.WithLogger(logger))
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
