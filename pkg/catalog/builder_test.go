package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixturePackage lays out one installed plugin package with the
// given node definition documents, declared under matching .js entries.
func writeFixturePackage(t *testing.T, root, name, version string, defs map[string]string) {
	t.Helper()

	pkgDir := filepath.Join(root, filepath.FromSlash(name))
	var declared []string
	for nodeName, content := range defs {
		rel := "dist/nodes/" + nodeName + "/" + nodeName + ".node"
		declared = append(declared, rel+".js")
		full := filepath.Join(pkgDir, filepath.FromSlash(rel+".json"))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	manifest, err := json.Marshal(map[string]any{
		"name":    name,
		"version": version,
		"n8n":     map[string]any{"nodes": declared},
	})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), manifest, 0644))
}

func TestBuilder_Build(t *testing.T) {
	t.Run("builds the catalog from scanned packages", func(t *testing.T) {
		root := t.TempDir()
		writeFixturePackage(t, root, "n8n-nodes-base", "1.82.0", map[string]string{
			"Slack": `{"description": {
				"name": "slack", "displayName": "Slack",
				"description": "Send messages to Slack", "group": ["output"]
			}}`,
			"Webhook": `{"description": {
				"name": "webhook", "displayName": "Webhook",
				"description": "Starts a workflow", "group": ["trigger"], "webhook": true
			}}`,
		})

		store := openTestStore(t)
		builder := NewBuilder(root, testLogger())
		summary, err := builder.Build(store, BuildOptions{
			Packages: []string{"n8n-nodes-base"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, summary.NodesCataloged)
		assert.Equal(t, 0, summary.ModulesFailed)
		assert.Equal(t, "1.82.0", summary.N8NVersion)

		d, err := store.Get("nodes-base.slack")
		require.NoError(t, err)
		assert.Equal(t, "Slack", d.DisplayName)
		require.NotNil(t, d.Documentation)
		assert.Contains(t, *d.Documentation, "# Slack")

		meta, err := store.BuildMetadata()
		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, SourceLocalOnly, meta.Source)
		assert.Equal(t, "1.82.0", meta.N8NVersion)
	})

	t.Run("source version resolves when the manifest name differs from the directory", func(t *testing.T) {
		root := t.TempDir()
		pkgDir := filepath.Join(root, "nodes-base-fork")
		defPath := filepath.Join(pkgDir, "dist/nodes/Slack/Slack.node.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(defPath), 0755))
		require.NoError(t, os.WriteFile(defPath,
			[]byte(`{"description": {"name": "slack", "displayName": "Slack"}}`), 0644))
		manifest := `{
			"name": "n8n-nodes-base",
			"version": "1.82.0",
			"n8n": {"nodes": ["dist/nodes/Slack/Slack.node.js"]}
		}`
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(manifest), 0644))

		store := openTestStore(t)
		builder := NewBuilder(root, testLogger())
		summary, err := builder.Build(store, BuildOptions{
			Packages: []string{"nodes-base-fork"},
		})

		require.NoError(t, err)
		assert.Equal(t, "1.82.0", summary.N8NVersion)
	})

	t.Run("a bad module is contained, the build completes", func(t *testing.T) {
		root := t.TempDir()
		writeFixturePackage(t, root, "n8n-nodes-base", "1.82.0", map[string]string{
			"Good":   `{"description": {"name": "good", "displayName": "Good", "description": "Works"}}`,
			"Broken": `{broken json`,
		})

		store := openTestStore(t)
		builder := NewBuilder(root, testLogger())
		summary, err := builder.Build(store, BuildOptions{
			Packages: []string{"n8n-nodes-base"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, summary.NodesCataloged)
		assert.Equal(t, 1, summary.ModulesFailed)
	})

	t.Run("external docs set provenance and are counted", func(t *testing.T) {
		root := t.TempDir()
		writeFixturePackage(t, root, "n8n-nodes-base", "1.82.0", map[string]string{
			"Slack": `{"description": {"name": "slack", "displayName": "Slack", "description": "Send messages"}}`,
			"Set":   `{"description": {"name": "set", "displayName": "Set", "description": "Edit fields"}}`,
		})

		store := openTestStore(t)
		builder := NewBuilder(root, testLogger())
		summary, err := builder.Build(store, BuildOptions{
			Packages: []string{"n8n-nodes-base"},
			Docs: map[string]string{
				"nodes-base.slack": "# Slack\n\nUpstream documentation.",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, summary.DocsFromSource)

		meta, err := store.BuildMetadata()
		require.NoError(t, err)
		assert.Equal(t, SourceLocalGithub, meta.Source)
		assert.Equal(t, 1, meta.DocsExtracted)

		d, err := store.Get("nodes-base.slack")
		require.NoError(t, err)
		require.NotNil(t, d.Documentation)
		assert.Equal(t, "# Slack\n\nUpstream documentation.", *d.Documentation)
	})

	t.Run("duplicate node types keep the later extraction", func(t *testing.T) {
		root := t.TempDir()
		// Two packages both declaring the same namespaced type.
		writeFixturePackage(t, root, "n8n-nodes-base", "1.82.0", map[string]string{
			"First": `{"description": {"name": "custom.dup", "displayName": "First", "description": "Old"}}`,
		})
		writeFixturePackage(t, root, "n8n-nodes-extra", "0.1.0", map[string]string{
			"Second": `{"description": {"name": "custom.dup", "displayName": "Second", "description": "New"}}`,
		})

		store := openTestStore(t)
		builder := NewBuilder(root, testLogger())
		summary, err := builder.Build(store, BuildOptions{
			Packages: []string{"n8n-nodes-base", "n8n-nodes-extra"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, summary.NodesCataloged)

		d, err := store.Get("custom.dup")
		require.NoError(t, err)
		assert.Equal(t, "Second", d.DisplayName)
	})

	t.Run("rebuilding twice from the same input produces identical content", func(t *testing.T) {
		root := t.TempDir()
		writeFixturePackage(t, root, "n8n-nodes-base", "1.82.0", map[string]string{
			"Slack": `{"description": {"name": "slack", "displayName": "Slack", "description": "Send messages"}}`,
		})

		store := openTestStore(t)
		builder := NewBuilder(root, testLogger())
		opts := BuildOptions{Packages: []string{"n8n-nodes-base"}}

		_, err := builder.Build(store, opts)
		require.NoError(t, err)
		first, err := store.Get("nodes-base.slack")
		require.NoError(t, err)

		_, err = builder.Build(store, opts)
		require.NoError(t, err)
		second, err := store.Get("nodes-base.slack")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
