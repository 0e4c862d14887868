// ABOUTME: Root command definition and CLI setup
// ABOUTME: Handles global flags and command initialization
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agileflow",
	Short: "Agile workflow memory tool",
	Long: `Agileflow keeps a persistent knowledge graph of agile workflow context
(epics, stories, sprints, decisions) and exposes it to AI assistants
over the Model Context Protocol.`,
}

func Execute() error {
	return rootCmd.Execute()
}
