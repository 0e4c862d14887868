// ABOUTME: Create command for adding entities to the knowledge graph
// ABOUTME: Handles entity type and observation flags, plus project logging
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
	"github.com/smian0/mcp-agile-flow-sub001/internal/logging"
)

var (
	createType         string
	createObservations []string
)

var createCmd = &cobra.Command{
	Use:     "create [name]",
	Aliases: []string{"c"},
	Short:   "Create an entity",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			if closeErr := database.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
			}
		}()

		created, err := db.CreateEntities(database, []db.Entity{{
			Name:         name,
			Type:         createType,
			Observations: createObservations,
		}})
		if err != nil {
			return fmt.Errorf("failed to create entity: %w", err)
		}

		if len(created) == 0 {
			color.Yellow("Entity %q already exists", name)
			return nil
		}

		fmt.Printf("Entity created: %s (%s)\n", name, createType)

		// Check for project logging
		writeActivityLog(logging.Event{
			Action: "entity created",
			Entity: name,
			Detail: createType,
		})

		return nil
	},
}

// writeActivityLog appends an event to the project log when the nearest
// .agileflow enables local_logging. Failures are warnings, never errors.
func writeActivityLog(event logging.Event) {
	workingDir, err := os.Getwd()
	if err != nil {
		return
	}

	projectRoot, err := config.FindProjectRoot(workingDir)
	if err != nil || projectRoot == "" {
		return
	}

	markerPath := filepath.Join(projectRoot, config.MarkerFile)
	projectCfg, err := config.LoadProjectConfig(markerPath)
	if err != nil || !projectCfg.LocalLogging {
		return
	}

	logDir := filepath.Join(projectRoot, projectCfg.LogDir)
	if err := logging.WriteProjectLog(logDir, projectCfg.LogFormat, event); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write project log: %v\n", err)
	} else {
		fmt.Printf("Project log updated: %s\n", logDir)
	}
}

var observeCmd = &cobra.Command{
	Use:     "observe [name] [observation...]",
	Aliases: []string{"o"},
	Short:   "Add observations to an entity",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		observations := args[1:]

		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		added, err := db.AddObservations(database, name, observations)
		if err != nil {
			return fmt.Errorf("failed to add observations: %w", err)
		}

		fmt.Printf("Added %d observations to %s\n", len(added), name)

		if len(added) > 0 {
			writeActivityLog(logging.Event{
				Action: "observations added",
				Entity: name,
				Detail: strings.Join(added, "; "),
			})
		}

		return nil
	},
}

var relateType string

var relateCmd = &cobra.Command{
	Use:   "relate [from] [to]",
	Short: "Create a relation between two entities",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		created, skipped, err := db.CreateRelations(database, []db.Relation{{
			From: args[0],
			To:   args[1],
			Type: relateType,
		}})
		if err != nil {
			return fmt.Errorf("failed to create relation: %w", err)
		}

		if len(created) == 0 {
			rel := skipped[0]
			color.Yellow("Relation skipped: %s -> %s (%s) is a duplicate or has unknown endpoints", rel.From, rel.To, rel.Type)
			return nil
		}

		rel := created[0]
		fmt.Printf("Relation created: %s -> %s (%s)\n", rel.From, rel.To, rel.Type)

		writeActivityLog(logging.Event{
			Action: "relation created",
			Entity: rel.From,
			Detail: fmt.Sprintf("%s -> %s (%s)", rel.From, rel.To, rel.Type),
		})

		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createType, "type", "t", "note", "Entity type")
	createCmd.Flags().StringArrayVar(&createObservations, "obs", []string{}, "Initial observations")
	relateCmd.Flags().StringVarP(&relateType, "type", "t", "relates_to", "Relation type")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(relateCmd)
}
