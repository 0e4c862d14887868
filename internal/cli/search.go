// ABOUTME: Search and open commands for querying the knowledge graph
// ABOUTME: Supports text search, type filters, date ranges, and exact opens
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/db"
)

var (
	searchTypes      []string
	searchSince      string
	searchUntil      string
	searchLimit      int
	searchJSONOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the knowledge graph",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		// Build search params
		params := db.SearchParams{
			Types: searchTypes,
			Limit: searchLimit,
		}

		if len(args) > 0 {
			params.Query = args[0]
		}

		// Parse dates
		if searchSince != "" {
			since, err := dateparse.ParseAny(searchSince)
			if err != nil {
				return fmt.Errorf("invalid --since date: %w", err)
			}
			params.Since = &since
		}

		if searchUntil != "" {
			until, err := dateparse.ParseAny(searchUntil)
			if err != nil {
				return fmt.Errorf("invalid --until date: %w", err)
			}
			params.Until = &until
		}

		graph, err := db.SearchNodes(database, params)
		if err != nil {
			return fmt.Errorf("failed to search nodes: %w", err)
		}

		return printGraph(graph, searchJSONOutput)
	},
}

var openJSONOutput bool

var openCmd = &cobra.Command{
	Use:   "open [name...]",
	Short: "Open entities by exact name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.InitDB(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = database.Close() }()

		graph, err := db.OpenNodes(database, args)
		if err != nil {
			return fmt.Errorf("failed to open nodes: %w", err)
		}

		return printGraph(graph, openJSONOutput)
	},
}

// printGraph renders a subgraph as JSON or a readable table.
func printGraph(graph *db.Graph, jsonOutput bool) error {
	if jsonOutput {
		data, err := json.MarshalIndent(graph, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("Name\tType\tCreated\t\t\tObservations")
	fmt.Println("----\t----\t-------\t\t\t------------")
	for _, entity := range graph.Entities {
		created := entity.CreatedAt.Format("2006-01-02 15:04:05")
		fmt.Printf("%s\t%s\t%s\t%s\n", entity.Name, entity.Type, created, strings.Join(entity.Observations, "; "))
	}

	if len(graph.Relations) > 0 {
		fmt.Println("\nRelations:")
		for _, rel := range graph.Relations {
			fmt.Printf("  %s -> %s (%s)\n", rel.From, rel.To, rel.Type)
		}
	}

	return nil
}

func init() {
	searchCmd.Flags().StringArrayVarP(&searchTypes, "type", "t", []string{}, "Filter by entity types")
	searchCmd.Flags().StringVar(&searchSince, "since", "", "Start date (natural language or ISO)")
	searchCmd.Flags().StringVar(&searchUntil, "until", "", "End date (natural language or ISO)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 100, "Maximum results")
	searchCmd.Flags().BoolVar(&searchJSONOutput, "json", false, "Output as JSON")
	openCmd.Flags().BoolVar(&openJSONOutput, "json", false, "Output as JSON")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(openCmd)
}
