package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/catalog"
	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/query"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the catalog's node categories",
	RunE:  runCategories,
}

var categoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "List nodes in one category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategory,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
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
	categories, err := service.ListCategories()
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	for _, c := range categories {
		fmt.Println(c)
	}
	return nil
}

func runCategory(cmd *cobra.Command, args []string) error {
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
	nodes, err := service.ListByCategory(args[0])
	if err != nil {
		return fmt.Errorf("failed to list category: %w", err)
	}

	for _, n := range nodes {
		fmt.Printf("%-40s %s\n", n.NodeType, n.DisplayName)
	}
	return nil
}
