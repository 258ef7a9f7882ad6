package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/catalog"
	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/query"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search the node catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", query.DefaultSearchLimit, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	store, err := catalog.OpenReadOnly(cfg.Catalog.DBPath, log)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	service := query.NewService(store, log)
	results, err := service.Search(args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No nodes found")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%-40s %-30s %s\n", r.NodeType, r.DisplayName, r.Description)
	}
	return nil
}
