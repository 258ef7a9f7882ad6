package nodes

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseDefinition parses a node definition document into its tagged
// variant. A document exposing a nodeVersions map is a versioned node;
// anything else is a simple node whose description is either the
// "description" field or the document itself.
func ParseDefinition(data []byte, packageName, nodeName string) (NodeDefinition, error) {
	if !gjson.ValidBytes(data) {
		return NodeDefinition{}, fmt.Errorf("invalid JSON in node definition %s", nodeName)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return NodeDefinition{}, fmt.Errorf("node definition %s is not a JSON object", nodeName)
	}

	def := NodeDefinition{
		PackageName: packageName,
		NodeName:    nodeName,
	}

	versions := doc.Get("nodeVersions")
	if versions.Exists() && versions.IsObject() {
		def.Kind = KindVersioned
		def.Versions = make(map[string]Description)
		versions.ForEach(func(key, value gjson.Result) bool {
			desc := value.Get("description")
			if !desc.Exists() {
				desc = value
			}
			def.Versions[key.String()] = NewDescription(desc)
			return true
		})

		// Prefer the instance-level base description when present.
		base := doc.Get("baseDescription")
		if !base.Exists() {
			base = doc.Get("description")
		}
		def.Description = NewDescription(base)
		def.DefaultVersion = doc.Get("defaultVersion").String()
		return def, nil
	}

	def.Kind = KindSimple
	desc := doc.Get("description")
	if desc.Exists() && desc.IsObject() {
		def.Description = NewDescription(desc)
	} else {
		def.Description = NewDescription(doc)
	}
	return def, nil
}
