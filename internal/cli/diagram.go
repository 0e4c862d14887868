// ABOUTME: Diagram command for rendering the graph as Mermaid
// ABOUTME: Supports direction, type filters, focus neighborhoods, and file output
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
	"github.com/smian0/mcp-agile-flow-sub001/internal/mermaid"
)

var (
	diagramDirection string
	diagramTypes     []string
	diagramFocus     string
	diagramDepth     int
	diagramOutput    string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Render the knowledge graph as a Mermaid flowchart",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		graph, err := db.ReadGraph(database)
		if err != nil {
			return fmt.Errorf("failed to read graph: %w", err)
		}

		direction := diagramDirection
		if direction == "" {
			direction = projectDiagramDirection()
		}

		rendered, err := mermaid.Render(graph, mermaid.Options{
			Direction: direction,
			Types:     diagramTypes,
			Focus:     diagramFocus,
			Depth:     diagramDepth,
		})
		if err != nil {
			return err
		}

		legend := mermaid.TypeLegend(graph)

		if diagramOutput != "" {
			if err := os.WriteFile(diagramOutput, []byte(rendered), 0644); err != nil {
				return fmt.Errorf("failed to write diagram: %w", err)
			}
			fmt.Printf("Diagram written to %s\n", diagramOutput)
			if legend != "" {
				fmt.Printf("Entity types: %s\n", legend)
			}
			return nil
		}

		fmt.Print(rendered)
		// Keep the output a valid diagram: the legend goes in a Mermaid comment
		if legend != "" {
			fmt.Println("%% " + legend)
		}
		return nil
	},
}

// projectDiagramDirection reads the diagram direction from the nearest
// .agileflow file, defaulting to TD.
func projectDiagramDirection() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "TD"
	}
	root, err := config.FindProjectRoot(cwd)
	if err != nil || root == "" {
		return "TD"
	}
	cfg, err := config.LoadProjectConfig(filepath.Join(root, config.MarkerFile))
	if err != nil {
		return "TD"
	}
	return cfg.DiagramDirection
}

func init() {
	diagramCmd.Flags().StringVarP(&diagramDirection, "direction", "d", "", "Flow direction: TD, LR, BT, or RL")
	diagramCmd.Flags().StringArrayVarP(&diagramTypes, "type", "t", []string{}, "Restrict to entity types")
	diagramCmd.Flags().StringVar(&diagramFocus, "focus", "", "Limit to the neighborhood of this entity")
	diagramCmd.Flags().IntVar(&diagramDepth, "depth", 1, "Neighborhood radius around the focus entity")
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "Write the diagram to a file")
	rootCmd.AddCommand(diagramCmd)
}
