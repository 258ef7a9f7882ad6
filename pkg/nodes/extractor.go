package nodes

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// DefaultVersion is stored when a node declares no usable version or its
// description cannot be read. The node is still cataloged.
const DefaultVersion = "1"

// Extractor turns loaded node definitions into normalized descriptors.
type Extractor struct {
	logger zerolog.Logger
}

// NewExtractor creates a new descriptor extractor
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With().Str("component", "node-extractor").Logger(),
	}
}

// Extract produces one descriptor from a loaded definition. A missing or
// unreadable description is not fatal: identity falls back to the module
// name and version/trigger/webhook fields take their defaults.
func (e *Extractor) Extract(def NodeDefinition) (*NodeDescriptor, error) {
	desc := def.Description

	if !desc.Exists() {
		// Instantiation fallback: catalog the node with defaults.
		if def.NodeName == "" {
			return nil, fmt.Errorf("node definition has neither description nor name")
		}
		e.logger.Debug().
			Str("node", def.NodeName).
			Msg("Description unavailable, applying defaults")
		return &NodeDescriptor{
			NodeType:         NormalizeNodeType(def.NodeName, def.PackageName),
			PackageName:      def.PackageName,
			DisplayName:      def.NodeName,
			DevelopmentStyle: StyleProgrammatic,
			Version:          DefaultVersion,
		}, nil
	}

	name := desc.Name()
	if name == "" {
		name = def.NodeName
	}
	if name == "" {
		return nil, fmt.Errorf("node definition declares no name")
	}

	nodeType := NormalizeNodeType(name, def.PackageName)
	groups := desc.Groups()

	d := &NodeDescriptor{
		NodeType:            nodeType,
		PackageName:         def.PackageName,
		DisplayName:         desc.DisplayName(),
		Description:         desc.Text(),
		Category:            firstOrEmpty(groups),
		DevelopmentStyle:    developmentStyle(desc),
		IsAITool:            desc.UsableAsTool(),
		IsTrigger:           isTrigger(desc, groups),
		IsWebhook:           isWebhook(desc, nodeType),
		PropertiesSchema:    desc.RawProperties(),
		Operations:          extractOperations(desc),
		CredentialsRequired: desc.RawCredentials(),
	}
	if d.DisplayName == "" {
		d.DisplayName = def.NodeName
	}

	d.IsVersioned, d.Version = extractVersion(def, desc)

	return d, nil
}

// developmentStyle classifies declarative request-routing nodes; anything
// else is programmatic.
func developmentStyle(desc Description) string {
	if desc.IsDeclarative() {
		return StyleDeclarative
	}
	return StyleProgrammatic
}

// isTrigger applies the trigger heuristic: polling capability, trigger
// capability, or a declared trigger group.
func isTrigger(desc Description, groups []string) bool {
	if desc.Polling() || desc.TriggerCapable() {
		return true
	}
	for _, g := range groups {
		if g == "trigger" {
			return true
		}
	}
	return false
}

// isWebhook flags webhook capability. The substring check on the type
// name is a known approximation carried over from the catalog's origins:
// a node whose name merely contains "webhook" is flagged even without
// declared capability.
func isWebhook(desc Description, nodeType string) bool {
	if desc.WebhookCapable() {
		return true
	}
	return strings.Contains(strings.ToLower(nodeType), "webhook")
}

// extractVersion resolves the stored version serialization. Versioned
// definitions use their numeric map keys; plain definitions use the
// declared version value, which may itself be an array.
func extractVersion(def NodeDefinition, desc Description) (bool, string) {
	if def.Kind == KindVersioned {
		var versions []float64
		for key := range def.Versions {
			v, err := cast.ToFloat64E(key)
			if err != nil {
				continue
			}
			versions = append(versions, v)
		}
		if len(versions) == 0 {
			return true, DefaultVersion
		}
		// Map-derived version sets serialize as a list even when the map
		// declares a single version.
		data, _ := json.Marshal(sortedDistinct(versions))
		return true, string(data)
	}

	raw := desc.Version()
	if raw.IsArray() {
		var versions []float64
		for _, item := range raw.Array() {
			v, err := cast.ToFloat64E(item.Value())
			if err != nil {
				continue
			}
			versions = append(versions, v)
		}
		if len(versions) == 0 {
			return false, DefaultVersion
		}
		return len(versions) > 1, serializeVersions(versions)
	}

	if raw.Exists() {
		if v, err := cast.ToFloat64E(raw.Value()); err == nil {
			return false, formatVersion(v)
		}
	}
	return false, DefaultVersion
}

// serializeVersions sorts descending (newest first) and serializes as an
// ordered JSON list, or plain when a single version remains.
func serializeVersions(versions []float64) string {
	distinct := sortedDistinct(versions)
	if len(distinct) == 1 {
		return formatVersion(distinct[0])
	}
	data, _ := json.Marshal(distinct)
	return string(data)
}

// sortedDistinct sorts descending and collapses duplicates in place.
func sortedDistinct(versions []float64) []float64 {
	sort.Sort(sort.Reverse(sort.Float64Slice(versions)))

	distinct := versions[:0]
	var prev float64
	for i, v := range versions {
		if i > 0 && v == prev {
			continue
		}
		distinct = append(distinct, v)
		prev = v
	}
	return distinct
}

func formatVersion(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// extractOperations scans the parameter list for a parameter literally
// named "operation" or "resource" with a fixed option set. The first
// match wins; absent a match, operations stay empty.
func extractOperations(desc Description) string {
	for _, p := range desc.Properties() {
		name := p.Get("name").String()
		if name != "operation" && name != "resource" {
			continue
		}
		options := p.Get("options")
		if options.Exists() && options.IsArray() && len(options.Array()) > 0 {
			return options.Raw
		}
	}
	return ""
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
