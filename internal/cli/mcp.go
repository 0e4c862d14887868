// ABOUTME: MCP subcommand for running the agileflow MCP server
// ABOUTME: Handles stdio transport initialization and server lifecycle
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the agileflow MCP server",
	Long:  `Start the Model Context Protocol server for AI assistants to interact with the knowledge graph over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(config.DefaultDBPath())
		return server.Run(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
