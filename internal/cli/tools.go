// ABOUTME: Tools command for inspecting the registered MCP tool list
// ABOUTME: Prints tool names and descriptions without starting the server
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/mcp"
)

var toolsJSONOutput bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools this server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(config.DefaultDBPath())
		tools := server.Tools()

		if toolsJSONOutput {
			data, err := json.MarshalIndent(tools, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%d tools registered:\n\n", len(tools))
		for _, tool := range tools {
			color.Cyan(tool.Name)
			fmt.Printf("  %s\n\n", tool.Description)
		}

		return nil
	},
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSONOutput, "json", false, "Output as JSON")
	rootCmd.AddCommand(toolsCmd)
}
