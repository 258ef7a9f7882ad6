package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/catalog"
	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/release"
)

var releaseCmd = &cobra.Command{
	Use:   "release [tag]",
	Short: "Fetch the node manifest for an n8n release",
	Long: `Fetch the authoritative node listing n8n ships at a release tag or
branch (default master) and compare its version against the catalog
build. The comparison is advisory; nothing is blocked on a mismatch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	tag := release.DefaultBranch
	if len(args) > 0 {
		tag = args[0]
	}

	reconciler := release.NewReconciler(cfg.Release.RepoBaseURL, log)
	manifest, err := reconciler.FetchManifest(cmd.Context(), tag)
	if err != nil {
		return fmt.Errorf("failed to fetch release manifest: %w", err)
	}

	fmt.Printf("Tag: %s\n", manifest.VersionTag)
	fmt.Printf("n8n version: %s\n", manifest.N8NVersion)
	fmt.Printf("Base nodes: %d\n", len(manifest.BaseNodeFiles))
	fmt.Printf("Langchain nodes: %d\n", len(manifest.LangchainNodeFiles))

	// Advisory skew check against the local catalog, when one exists.
	store, err := catalog.OpenReadOnly(cfg.Catalog.DBPath, log)
	if err != nil {
		return nil
	}
	defer store.Close()

	buildVersion, err := store.BuildVersion()
	if err != nil || buildVersion == "" {
		return nil
	}

	skew, err := release.CompareVersions(buildVersion, manifest.N8NVersion)
	if err != nil {
		log.Warn().Err(err).Msg("Version comparison not possible")
		return nil
	}
	fmt.Printf("Catalog build: %s (%s)\n", buildVersion, skew)
	return nil
}
