// ABOUTME: Graph and forget commands for whole-graph reads and deletions
// ABOUTME: Supports stats table, JSON dump, and confirmed deletes
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

var graphJSONOutput bool

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the full knowledge graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		if graphJSONOutput {
			graph, err := db.ReadGraph(database)
			if err != nil {
				return fmt.Errorf("failed to read graph: %w", err)
			}
			data, err := json.MarshalIndent(graph, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		stats, err := db.Stats(database)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}

		fmt.Printf("Entities:     %d\n", stats.EntityCount)
		fmt.Printf("Relations:    %d\n", stats.RelationCount)
		fmt.Printf("Observations: %d\n", stats.ObservationCount)

		if len(stats.EntityTypes) > 0 {
			fmt.Println("\nBy type:")
			for typ, count := range stats.EntityTypes {
				fmt.Printf("  %s\t%d\n", typ, count)
			}
		}

		return nil
	},
}

var (
	forgetRelationTo   string
	forgetRelationType string
	forgetObservations []string
	forgetYes          bool
)

var forgetCmd = &cobra.Command{
	Use:   "forget [name]",
	Short: "Delete an entity, relation, or observations",
	Long: `Delete knowledge graph records.

Without flags, deletes the named entity with its observations and relations.
With --to, deletes relations from the named entity to the target instead.
With --obs, deletes only the given observations from the entity.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		switch {
		case forgetRelationTo != "":
			deleted, err := db.DeleteRelations(database, []db.Relation{{
				From: name,
				To:   forgetRelationTo,
				Type: forgetRelationType,
			}})
			if err != nil {
				return fmt.Errorf("failed to delete relations: %w", err)
			}
			fmt.Printf("Deleted %d relations\n", deleted)

		case len(forgetObservations) > 0:
			deleted, err := db.DeleteObservations(database, name, forgetObservations)
			if err != nil {
				return fmt.Errorf("failed to delete observations: %w", err)
			}
			fmt.Printf("Deleted %d observations from %s\n", deleted, name)

		default:
			if !forgetYes && !confirm(fmt.Sprintf("Delete entity %q with all its observations and relations? [y/N]: ", name)) {
				fmt.Println("Aborted.")
				return nil
			}
			deleted, err := db.DeleteEntities(database, []string{name})
			if err != nil {
				return fmt.Errorf("failed to delete entity: %w", err)
			}
			if deleted == 0 {
				color.Yellow("Entity %q not found", name)
				return nil
			}
			color.Green("Entity %q deleted", name)
		}

		return nil
	},
}

// confirm prompts on stdin and returns true for y/yes.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	graphCmd.Flags().BoolVar(&graphJSONOutput, "json", false, "Output as JSON")
	forgetCmd.Flags().StringVar(&forgetRelationTo, "to", "", "Delete relations to this entity instead of the entity itself")
	forgetCmd.Flags().StringVar(&forgetRelationType, "type", "", "Relation type to delete (all types when empty)")
	forgetCmd.Flags().StringArrayVar(&forgetObservations, "obs", []string{}, "Delete only these observations")
	forgetCmd.Flags().BoolVarP(&forgetYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(forgetCmd)
}
