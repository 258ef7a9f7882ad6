package nodes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ScannedNode is one successfully loaded node module.
type ScannedNode struct {
	PackageName string
	NodeName    string
	Definition  NodeDefinition
}

// ScanResult aggregates a full scan: every loaded node plus per-package
// versions and success/failure counts. PackageVersions is keyed by the
// configured package identifier as passed to Scan.
type ScanResult struct {
	Nodes           []ScannedNode
	PackageVersions map[string]string
	Loaded          int
	Failed          int
	SkippedPackages []string
}

// Scanner enumerates configured plugin packages and loads their declared
// node modules. Loading one module never aborts the scan.
type Scanner struct {
	root      string
	manifests *ManifestLoader
	logger    zerolog.Logger
}

// NewScanner creates a scanner rooted at the directory containing the
// installed plugin packages.
func NewScanner(root string, logger zerolog.Logger) *Scanner {
	return &Scanner{
		root:      root,
		manifests: NewManifestLoader(logger),
		logger:    logger.With().Str("component", "node-scanner").Logger(),
	}
}

// Scan walks the given packages in order. A package whose manifest cannot
// be located is skipped entirely; a node module that fails to load is
// logged and omitted while the scan continues.
func (s *Scanner) Scan(packages []string) (*ScanResult, error) {
	result := &ScanResult{
		PackageVersions: make(map[string]string),
	}

	for _, pkg := range packages {
		pkgDir := filepath.Join(s.root, filepath.FromSlash(pkg))
		manifestPath := filepath.Join(pkgDir, "package.json")

		manifest, err := s.manifests.LoadManifest(manifestPath)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("package", pkg).
				Msg("Package manifest not available, skipping package")
			result.SkippedPackages = append(result.SkippedPackages, pkg)
			continue
		}

		// Keyed by the configured identifier, not the manifest's own
		// name; callers look packages up by what they asked to scan.
		result.PackageVersions[pkg] = manifest.Version

		for _, modulePath := range manifest.N8N.Nodes {
			node, err := s.loadModule(pkgDir, manifest.Name, modulePath)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("package", manifest.Name).
					Str("module", modulePath).
					Msg("Failed to load node module")
				result.Failed++
				continue
			}
			result.Nodes = append(result.Nodes, *node)
			result.Loaded++
		}
	}

	s.logger.Info().
		Int("loaded", result.Loaded).
		Int("failed", result.Failed).
		Int("skipped_packages", len(result.SkippedPackages)).
		Msg("Node scan completed")

	return result, nil
}

// loadModule reads and parses one declared node module.
func (s *Scanner) loadModule(pkgDir, packageName, modulePath string) (*ScannedNode, error) {
	path := filepath.Join(pkgDir, filepath.FromSlash(definitionPath(modulePath)))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read node module: %w", err)
	}

	nodeName := moduleNodeName(modulePath)
	def, err := ParseDefinition(data, packageName, nodeName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node module: %w", err)
	}

	s.logger.Debug().
		Str("package", packageName).
		Str("node", nodeName).
		Str("kind", string(def.Kind)).
		Msg("Loaded node module")

	return &ScannedNode{
		PackageName: packageName,
		NodeName:    nodeName,
		Definition:  def,
	}, nil
}

// definitionPath maps a declared module path to its JSON definition file.
// Manifests declare compiled entry points ("dist/nodes/Slack/Slack.node.js");
// the catalog reads the definition document shipped next to them.
func definitionPath(modulePath string) string {
	if strings.HasSuffix(modulePath, ".js") {
		return strings.TrimSuffix(modulePath, ".js") + ".json"
	}
	return modulePath
}

// moduleNodeName derives the node name from a module path:
// "dist/nodes/Slack/Slack.node.js" yields "Slack".
func moduleNodeName(modulePath string) string {
	base := filepath.Base(filepath.FromSlash(modulePath))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".node")
}
