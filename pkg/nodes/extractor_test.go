package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDef(t *testing.T, doc, packageName, nodeName string) NodeDefinition {
	t.Helper()
	def, err := ParseDefinition([]byte(doc), packageName, nodeName)
	require.NoError(t, err)
	return def
}

func TestExtractor_Extract(t *testing.T) {
	extractor := NewExtractor(testLogger())

	t.Run("normalizes bare node names with the package prefix", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "slack", "displayName": "Slack", "description": "Send messages", "group": ["output"]}}`,
			"n8n-nodes-base", "Slack")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Equal(t, "nodes-base.slack", d.NodeType)
		assert.Equal(t, "Slack", d.DisplayName)
		assert.Equal(t, "Send messages", d.Description)
		assert.Equal(t, "output", d.Category)
	})

	t.Run("keeps names that already carry a namespace", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "custom.thing", "displayName": "Thing"}}`,
			"n8n-nodes-base", "Thing")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Equal(t, "custom.thing", d.NodeType)
	})

	t.Run("strips the scope from scoped package names", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "agent", "displayName": "AI Agent"}}`,
			"@n8n/n8n-nodes-langchain", "Agent")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Equal(t, "nodes-langchain.agent", d.NodeType)
	})

	t.Run("versioned definition uses descending numeric map keys", func(t *testing.T) {
		def := parseDef(t, `{
			"nodeVersions": {
				"1": {"description": {"name": "httpRequest"}},
				"2": {"description": {"name": "httpRequest"}},
				"3": {"description": {"name": "httpRequest"}}
			},
			"baseDescription": {"name": "httpRequest", "displayName": "HTTP Request"}
		}`, "n8n-nodes-base", "HttpRequest")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.True(t, d.IsVersioned)
		assert.Equal(t, "[3,2,1]", d.Version)
	})

	t.Run("single-entry version map still serializes as a list", func(t *testing.T) {
		def := parseDef(t, `{
			"nodeVersions": {
				"2": {"description": {"name": "wait"}}
			},
			"baseDescription": {"name": "wait", "displayName": "Wait"}
		}`, "n8n-nodes-base", "Wait")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.True(t, d.IsVersioned)
		assert.Equal(t, "[2]", d.Version)
	})

	t.Run("array version sorts descending", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "set", "displayName": "Set", "version": [1, 2, 2.6]}}`,
			"n8n-nodes-base", "Set")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.True(t, d.IsVersioned)
		assert.Equal(t, "[2.6,2,1]", d.Version)
	})

	t.Run("single numeric version is stored plain", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "if", "displayName": "If", "version": 2}}`,
			"n8n-nodes-base", "If")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.False(t, d.IsVersioned)
		assert.Equal(t, "2", d.Version)
	})

	t.Run("missing version defaults to 1", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "noop", "displayName": "NoOp"}}`,
			"n8n-nodes-base", "NoOp")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Equal(t, DefaultVersion, d.Version)
	})

	t.Run("missing description falls back to defaults", func(t *testing.T) {
		def := NodeDefinition{
			Kind:        KindSimple,
			PackageName: "n8n-nodes-base",
			NodeName:    "Mystery",
		}

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Equal(t, "nodes-base.Mystery", d.NodeType)
		assert.Equal(t, "Mystery", d.DisplayName)
		assert.Equal(t, DefaultVersion, d.Version)
		assert.False(t, d.IsTrigger)
		assert.False(t, d.IsWebhook)
	})

	t.Run("trigger detection", func(t *testing.T) {
		cases := []struct {
			name string
			doc  string
			want bool
		}{
			{"polling", `{"description": {"name": "rssFeedRead", "polling": true}}`, true},
			{"trigger capability", `{"description": {"name": "cron", "trigger": true}}`, true},
			{"trigger group", `{"description": {"name": "interval", "group": ["trigger"]}}`, true},
			{"plain node", `{"description": {"name": "set", "group": ["input"]}}`, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				def := parseDef(t, tc.doc, "n8n-nodes-base", "X")
				d, err := extractor.Extract(def)
				require.NoError(t, err)
				assert.Equal(t, tc.want, d.IsTrigger)
			})
		}
	})

	t.Run("webhook detection includes the name heuristic", func(t *testing.T) {
		declared := parseDef(t, `{"description": {"name": "formTrigger", "webhook": true}}`,
			"n8n-nodes-base", "FormTrigger")
		d, err := extractor.Extract(declared)
		require.NoError(t, err)
		assert.True(t, d.IsWebhook)

		// No declared capability, flagged purely by the type name.
		byName := parseDef(t, `{"description": {"name": "webhookRelay"}}`,
			"n8n-nodes-base", "WebhookRelay")
		d, err = extractor.Extract(byName)
		require.NoError(t, err)
		assert.True(t, d.IsWebhook)
	})

	t.Run("declarative style from requestDefaults", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "deepl", "requestDefaults": {"baseURL": "https://api.deepl.com"}}}`,
			"n8n-nodes-base", "DeepL")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Equal(t, StyleDeclarative, d.DevelopmentStyle)
	})

	t.Run("operations come from the operation parameter's options", func(t *testing.T) {
		def := parseDef(t, `{"description": {
			"name": "slack",
			"properties": [
				{"name": "resource", "options": [{"name": "Message", "value": "message"}]},
				{"name": "operation", "options": [{"name": "Post", "value": "post"}]}
			]
		}}`, "n8n-nodes-base", "Slack")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name": "Message", "value": "message"}]`, d.Operations)
	})

	t.Run("no operation parameter means no operations", func(t *testing.T) {
		def := parseDef(t, `{"description": {
			"name": "set",
			"properties": [{"name": "mode", "options": [{"name": "Manual", "value": "manual"}]}]
		}}`, "n8n-nodes-base", "Set")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.Empty(t, d.Operations)
	})

	t.Run("ai tool flag", func(t *testing.T) {
		def := parseDef(t, `{"description": {"name": "slack", "usableAsTool": true}}`,
			"n8n-nodes-base", "Slack")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.True(t, d.IsAITool)
	})

	t.Run("properties and credentials serialize verbatim", func(t *testing.T) {
		def := parseDef(t, `{"description": {
			"name": "slack",
			"properties": [{"name": "channel", "displayName": "Channel"}],
			"credentials": [{"name": "slackApi", "required": true}]
		}}`, "n8n-nodes-base", "Slack")

		d, err := extractor.Extract(def)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name": "channel", "displayName": "Channel"}]`, d.PropertiesSchema)
		assert.JSONEq(t, `[{"name": "slackApi", "required": true}]`, d.CredentialsRequired)
	})
}

func TestPackagePrefix(t *testing.T) {
	assert.Equal(t, "nodes-base", PackagePrefix("n8n-nodes-base"))
	assert.Equal(t, "nodes-langchain", PackagePrefix("@n8n/n8n-nodes-langchain"))
	assert.Equal(t, "nodes-custom", PackagePrefix("nodes-custom"))
}

func TestSerializeVersions(t *testing.T) {
	assert.Equal(t, "[2.6,2,1]", serializeVersions([]float64{1, 2, 2.6}))
	assert.Equal(t, "2", serializeVersions([]float64{2}))
	// Duplicates collapse.
	assert.Equal(t, "[2,1]", serializeVersions([]float64{2, 1, 2}))
}
