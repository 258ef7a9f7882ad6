package catalog

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/nodes"
)

// BuildOptions configures one catalog build.
type BuildOptions struct {
	// Packages is the fixed, ordered list of plugin packages to scan.
	Packages []string

	// Docs is an optional externally fetched documentation map keyed by
	// normalized node type. When non-empty the build provenance becomes
	// local+github.
	Docs map[string]string
}

// BuildSummary aggregates the per-item outcomes of one build. Individual
// failures never abort the build; they are reported here.
type BuildSummary struct {
	NodesCataloged  int
	ModulesFailed   int
	ExtractFailed   int
	DocsFromSource  int
	SkippedPackages []string
	N8NVersion      string
}

// Builder runs the one-shot catalog pipeline: scan, extract, synthesize
// documentation, replace the store contents. It is a single sequential
// pass; only one build may run against a store at a time.
type Builder struct {
	scanner     *nodes.Scanner
	extractor   *nodes.Extractor
	synthesizer *nodes.Synthesizer
	logger      zerolog.Logger
}

// NewBuilder creates a builder rooted at the given node_modules path.
func NewBuilder(nodeModulesPath string, logger zerolog.Logger) *Builder {
	return &Builder{
		scanner:     nodes.NewScanner(nodeModulesPath, logger),
		extractor:   nodes.NewExtractor(logger),
		synthesizer: nodes.NewSynthesizer(logger),
		logger:      logger.With().Str("component", "catalog-builder").Logger(),
	}
}

// Build rebuilds the catalog from scratch. Re-extraction of a duplicate
// node type replaces the prior entry wholesale (last write wins).
func (b *Builder) Build(store *Store, opts BuildOptions) (*BuildSummary, error) {
	scan, err := b.scanner.Scan(opts.Packages)
	if err != nil {
		return nil, fmt.Errorf("failed to scan packages: %w", err)
	}

	summary := &BuildSummary{
		ModulesFailed:   scan.Failed,
		SkippedPackages: scan.SkippedPackages,
	}

	// The base package's own version is the source version of the build.
	for _, pkg := range opts.Packages {
		if v, ok := scan.PackageVersions[pkg]; ok {
			summary.N8NVersion = v
			break
		}
	}

	byType := make(map[string]int)
	var descriptors []nodes.NodeDescriptor

	for _, scanned := range scan.Nodes {
		descriptor, err := b.extractor.Extract(scanned.Definition)
		if err != nil {
			b.logger.Warn().
				Err(err).
				Str("node", scanned.NodeName).
				Str("package", scanned.PackageName).
				Msg("Failed to extract node descriptor")
			summary.ExtractFailed++
			continue
		}

		if _, ok := opts.Docs[descriptor.NodeType]; ok {
			summary.DocsFromSource++
		}
		descriptor.Documentation = b.synthesizer.Document(
			descriptor.NodeType, scanned.Definition.Description, opts.Docs,
		)

		if prev, ok := byType[descriptor.NodeType]; ok {
			// Same type extracted again: later definition replaces the
			// earlier one wholesale.
			descriptors[prev] = *descriptor
			continue
		}
		byType[descriptor.NodeType] = len(descriptors)
		descriptors = append(descriptors, *descriptor)
	}

	summary.NodesCataloged = len(descriptors)

	source := SourceLocalOnly
	if len(opts.Docs) > 0 {
		source = SourceLocalGithub
	}

	meta := BuildMetadata{
		N8NVersion:    summary.N8NVersion,
		RebuiltAt:     time.Now(),
		Source:        source,
		DocsExtracted: summary.DocsFromSource,
	}

	if err := store.ReplaceAll(descriptors, meta); err != nil {
		return nil, fmt.Errorf("failed to replace catalog: %w", err)
	}

	b.logger.Info().
		Int("cataloged", summary.NodesCataloged).
		Int("modules_failed", summary.ModulesFailed).
		Int("extract_failed", summary.ExtractFailed).
		Int("docs_from_source", summary.DocsFromSource).
		Str("n8n_version", summary.N8NVersion).
		Msg("Catalog build completed")

	return summary, nil
}
