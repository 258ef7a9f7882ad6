package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/catalog"
	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/release"
)

var rebuildFetchDocs bool

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the node catalog from installed packages",
	Long: `Scan the configured plugin packages, extract a normalized descriptor
for every node, and replace the catalog wholesale. Each build is a full
rebuild; there are no incremental updates.`,
	RunE: runRebuild,
}

func init() {
	rebuildCmd.Flags().BoolVar(&rebuildFetchDocs, "fetch-docs", false, "fetch upstream documentation for well-known nodes")
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Catalog.DBPath, log)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	opts := catalog.BuildOptions{
		Packages: cfg.Catalog.Packages,
	}

	if rebuildFetchDocs || cfg.Catalog.FetchDocs {
		fetcher := release.NewDocsFetcher(cfg.Release.DocsBaseURL, log)
		opts.Docs = fetcher.FetchNodeDocs(cmd.Context())
	}

	builder := catalog.NewBuilder(cfg.Catalog.NodeModulesPath, log)
	summary, err := builder.Build(store, opts)
	if err != nil {
		return fmt.Errorf("catalog rebuild failed: %w", err)
	}

	fmt.Printf("Cataloged %d nodes (n8n %s)\n", summary.NodesCataloged, summary.N8NVersion)
	if summary.ModulesFailed > 0 || summary.ExtractFailed > 0 {
		fmt.Printf("Failures: %d module loads, %d extractions\n", summary.ModulesFailed, summary.ExtractFailed)
	}
	if len(summary.SkippedPackages) > 0 {
		fmt.Printf("Skipped packages: %v\n", summary.SkippedPackages)
	}
	if summary.DocsFromSource > 0 {
		fmt.Printf("Documentation from upstream: %d nodes\n", summary.DocsFromSource)
	}

	return nil
}
