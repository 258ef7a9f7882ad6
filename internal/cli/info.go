package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/catalog"
	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/query"
)

var infoCmd = &cobra.Command{
	Use:   "info <node-type>",
	Short: "Show the full descriptor for a node type",
	Long: `Show the complete cataloged descriptor for one node type. Both the
stored form (nodes-base.slack) and the fully-prefixed form
(n8n-nodes-base.slack) are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
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
	node, err := service.GetByType(args[0])
	if errors.Is(err, catalog.ErrNotFound) {
		fmt.Printf("Node type %q is not in the catalog\n", args[0])
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render node: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
