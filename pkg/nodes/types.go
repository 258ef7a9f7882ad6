package nodes

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DefinitionKind identifies which node-definition variant a package ships.
type DefinitionKind string

const (
	// KindSimple is a single-definition node: one description, one version.
	KindSimple DefinitionKind = "simple"
	// KindVersioned bundles several version-specific descriptions under
	// one type name, keyed by version number.
	KindVersioned DefinitionKind = "versioned"
)

// DevelopmentStyle classifies how a node implements its behavior.
const (
	StyleDeclarative  = "declarative"
	StyleProgrammatic = "programmatic"
)

// NodeDefinition is a loaded node module, dispatched by Kind.
type NodeDefinition struct {
	Kind        DefinitionKind
	PackageName string
	NodeName    string

	// Description is the sole description for simple nodes, or the base
	// description for versioned nodes.
	Description Description

	// Versions maps version keys to per-version descriptions. Only set
	// for versioned nodes.
	Versions map[string]Description

	// DefaultVersion is the version a versioned node resolves to when
	// none is requested. Empty when the definition does not declare one.
	DefaultVersion string
}

// Description is a schema-tolerant view over a node description document.
// Node descriptions are heterogeneous across hundreds of node kinds, so
// access goes through gjson lookups rather than a rigid struct.
type Description struct {
	raw gjson.Result
}

// NewDescription wraps a parsed JSON value as a description.
func NewDescription(raw gjson.Result) Description {
	return Description{raw: raw}
}

// ParseDescription parses raw JSON bytes as a description.
func ParseDescription(data []byte) Description {
	return Description{raw: gjson.ParseBytes(data)}
}

// Exists reports whether the description is a usable JSON object. A node
// whose description is missing still gets cataloged with fallback values.
func (d Description) Exists() bool {
	return d.raw.Exists() && d.raw.IsObject()
}

// Name returns the declared node name.
func (d Description) Name() string {
	return d.raw.Get("name").String()
}

// DisplayName returns the human-readable node name.
func (d Description) DisplayName() string {
	return d.raw.Get("displayName").String()
}

// Text returns the free-text description.
func (d Description) Text() string {
	return d.raw.Get("description").String()
}

// Subtitle returns the declared subtitle expression, if any.
func (d Description) Subtitle() string {
	return d.raw.Get("subtitle").String()
}

// Groups returns the declared group list.
func (d Description) Groups() []string {
	var groups []string
	for _, g := range d.raw.Get("group").Array() {
		if s := g.String(); s != "" {
			groups = append(groups, s)
		}
	}
	return groups
}

// Version returns the raw declared version value. It may be a number, a
// string holding a number, or an array of numbers.
func (d Description) Version() gjson.Result {
	return d.raw.Get("version")
}

// Properties returns the declared parameter list.
func (d Description) Properties() []gjson.Result {
	return d.raw.Get("properties").Array()
}

// RawProperties returns the parameter list as serialized JSON, or "" when
// the description declares none.
func (d Description) RawProperties() string {
	props := d.raw.Get("properties")
	if !props.Exists() || !props.IsArray() {
		return ""
	}
	return props.Raw
}

// RawCredentials returns the credential requirements as serialized JSON,
// or "" when the description declares none.
func (d Description) RawCredentials() string {
	creds := d.raw.Get("credentials")
	if !creds.Exists() || !creds.IsArray() || len(creds.Array()) == 0 {
		return ""
	}
	return creds.Raw
}

// Codex returns the embedded categorical metadata block.
func (d Description) Codex() gjson.Result {
	return d.raw.Get("codex")
}

// Hints returns the declared hint list.
func (d Description) Hints() gjson.Result {
	return d.raw.Get("hints")
}

// IsDeclarative reports whether the node uses declarative request-routing
// configuration instead of programmatic execution.
func (d Description) IsDeclarative() bool {
	if d.raw.Get("requestDefaults").Exists() {
		return true
	}
	for _, p := range d.Properties() {
		if p.Get("routing").Exists() {
			return true
		}
	}
	return false
}

// Polling reports whether the node declares polling capability.
func (d Description) Polling() bool {
	return d.raw.Get("polling").Bool()
}

// TriggerCapable reports whether the node declares trigger capability.
func (d Description) TriggerCapable() bool {
	return d.raw.Get("trigger").Bool() || d.raw.Get("eventTriggerDescription").Exists()
}

// WebhookCapable reports whether the node declares webhook capability.
func (d Description) WebhookCapable() bool {
	if d.raw.Get("webhook").Bool() {
		return true
	}
	return len(d.raw.Get("webhooks").Array()) > 0
}

// UsableAsTool reports whether the node is flagged for AI-agent use.
func (d Description) UsableAsTool() bool {
	return d.raw.Get("usableAsTool").Bool()
}

// NodeDescriptor is the normalized record for one node type, independent
// of the definition variant it was extracted from. Nullable columns use
// "" (or nil for Documentation) to mean absent.
type NodeDescriptor struct {
	NodeType            string
	PackageName         string
	DisplayName         string
	Description         string
	Category            string
	DevelopmentStyle    string
	IsAITool            bool
	IsTrigger           bool
	IsWebhook           bool
	IsVersioned         bool
	Version             string
	Documentation       *string
	PropertiesSchema    string
	Operations          string
	CredentialsRequired string
}

// PackagePrefix derives the type-name prefix from a package name: the
// scope segment and the literal "n8n-" token are stripped, so
// "n8n-nodes-base" and "@n8n/n8n-nodes-langchain" become "nodes-base"
// and "nodes-langchain".
func PackagePrefix(packageName string) string {
	if i := strings.LastIndex(packageName, "/"); i >= 0 {
		packageName = packageName[i+1:]
	}
	return strings.TrimPrefix(packageName, "n8n-")
}

// NormalizeNodeType returns the canonical type key for a declared node
// name. Names that already carry a namespace separator are used verbatim;
// bare names are qualified with the package prefix.
func NormalizeNodeType(rawName, packageName string) string {
	if strings.Contains(rawName, ".") {
		return rawName
	}
	return PackagePrefix(packageName) + "." + rawName
}
