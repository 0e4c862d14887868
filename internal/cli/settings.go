// ABOUTME: Settings command for printing resolved project settings
// ABOUTME: Mirrors the get_project_settings tool as JSON on stdout
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
)

var settingsProjectPath string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print resolved project settings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		settings, err := config.BuildSettings(cwd, settingsProjectPath)
		if err != nil {
			return fmt.Errorf("failed to build settings: %w", err)
		}

		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))

		return nil
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsProjectPath, "project-path", "", "Explicit project path override")
	rootCmd.AddCommand(settingsCmd)
}
