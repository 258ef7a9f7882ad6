// Package query is the read-only façade over the catalog store. It adds
// type-name normalization on lookup and schema-tolerant deserialization
// of the stored JSON payloads; a payload that fails to parse is logged
// and omitted, never fatal.
package query

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/catalog"
	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/nodes"
)

// DefaultSearchLimit caps keyword search results when the caller does
// not supply a limit.
const DefaultSearchLimit = 10

// Node is a full descriptor with its serialized payloads deserialized
// for the caller.
type Node struct {
	NodeType         string          `json:"nodeType"`
	PackageName      string          `json:"packageName"`
	DisplayName      string          `json:"displayName"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category,omitempty"`
	DevelopmentStyle string          `json:"developmentStyle,omitempty"`
	IsAITool         bool            `json:"isAiTool"`
	IsTrigger        bool            `json:"isTrigger"`
	IsWebhook        bool            `json:"isWebhook"`
	IsVersioned      bool            `json:"isVersioned"`
	Versions         []float64       `json:"versions,omitempty"`
	LatestVersion    float64         `json:"latestVersion,omitempty"`
	Documentation    *string         `json:"documentation,omitempty"`
	Properties       json.RawMessage `json:"properties,omitempty"`
	Operations       json.RawMessage `json:"operations,omitempty"`
	Credentials      json.RawMessage `json:"credentials,omitempty"`
}

// Service answers catalog queries. It never writes.
type Service struct {
	store  *catalog.Store
	logger zerolog.Logger
}

// NewService creates a query service over an opened store.
func NewService(store *catalog.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "query-service").Logger(),
	}
}

// Search runs a case-insensitive substring search and returns the
// reduced projection. A miss yields an empty list, never an error.
func (s *Service) Search(keyword string, limit int) ([]catalog.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.store.Search(keyword, limit)
}

// GetByType returns the complete descriptor for a node type. Both the
// stored form ("nodes-base.slack") and the legacy fully-prefixed form
// ("n8n-nodes-base.slack") are accepted. Returns catalog.ErrNotFound
// when no row matches either form.
func (s *Service) GetByType(nodeType string) (*Node, error) {
	normalized := NormalizeType(nodeType)
	descriptor, err := s.store.Get(normalized)
	if errors.Is(err, catalog.ErrNotFound) && normalized != nodeType {
		// The caller may have stored the legacy key verbatim.
		descriptor, err = s.store.Get(nodeType)
	}
	if err != nil {
		return nil, err
	}
	return s.enrich(descriptor), nil
}

// ListCategories enumerates the stored categories.
func (s *Service) ListCategories() ([]string, error) {
	return s.store.ListCategories()
}

// ListByCategory returns complete descriptors for one category.
func (s *Service) ListByCategory(category string) ([]*Node, error) {
	descriptors, err := s.store.ListByCategory(category)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(descriptors), nil
}

// ListAICapable returns complete descriptors for AI-capable nodes.
func (s *Service) ListAICapable() ([]*Node, error) {
	descriptors, err := s.store.ListAICapable()
	if err != nil {
		return nil, err
	}
	return s.enrichAll(descriptors), nil
}

// BuildVersion returns the catalog's stored source version, "" when the
// catalog has never been built.
func (s *Service) BuildVersion() (string, error) {
	return s.store.BuildVersion()
}

// NormalizeType maps a legacy fully-prefixed type name to the stored
// key: "n8n-nodes-base.slack" becomes "nodes-base.slack". Names already
// in stored form pass through unchanged.
func NormalizeType(nodeType string) string {
	prefix, name, ok := strings.Cut(nodeType, ".")
	if !ok {
		return nodeType
	}
	return strings.TrimPrefix(prefix, "n8n-") + "." + name
}

func (s *Service) enrichAll(descriptors []nodes.NodeDescriptor) []*Node {
	out := make([]*Node, 0, len(descriptors))
	for i := range descriptors {
		out = append(out, s.enrich(&descriptors[i]))
	}
	return out
}

// enrich deserializes the stored JSON payloads. Unparseable payloads are
// logged and omitted; the rest of the descriptor is still returned.
func (s *Service) enrich(d *nodes.NodeDescriptor) *Node {
	n := &Node{
		NodeType:         d.NodeType,
		PackageName:      d.PackageName,
		DisplayName:      d.DisplayName,
		Description:      d.Description,
		Category:         d.Category,
		DevelopmentStyle: d.DevelopmentStyle,
		IsAITool:         d.IsAITool,
		IsTrigger:        d.IsTrigger,
		IsWebhook:        d.IsWebhook,
		IsVersioned:      d.IsVersioned,
		Documentation:    d.Documentation,
	}

	n.Versions, n.LatestVersion = s.parseVersions(d.NodeType, d.Version)
	n.Properties = s.parsePayload(d.NodeType, "properties", d.PropertiesSchema)
	n.Operations = s.parsePayload(d.NodeType, "operations", d.Operations)
	n.Credentials = s.parsePayload(d.NodeType, "credentials", d.CredentialsRequired)

	return n
}

// parseVersions reads the stored version serialization: either a single
// number or a descending-ordered JSON list.
func (s *Service) parseVersions(nodeType, stored string) ([]float64, float64) {
	if stored == "" {
		return nil, 0
	}
	if !gjson.Valid(stored) {
		s.logger.Warn().
			Str("node", nodeType).
			Str("field", "version").
			Msg("Stored payload is not parseable, omitting")
		return nil, 0
	}

	parsed := gjson.Parse(stored)
	if parsed.IsArray() {
		var versions []float64
		for _, v := range parsed.Array() {
			versions = append(versions, v.Float())
		}
		if len(versions) == 0 {
			return nil, 0
		}
		return versions, versions[0]
	}

	v := parsed.Float()
	return []float64{v}, v
}

// parsePayload validates a stored JSON payload, failing soft.
func (s *Service) parsePayload(nodeType, field, stored string) json.RawMessage {
	if stored == "" {
		return nil
	}
	if !gjson.Valid(stored) {
		s.logger.Warn().
			Str("node", nodeType).
			Str("field", field).
			Msg("Stored payload is not parseable, omitting")
		return nil
	}
	return json.RawMessage(stored)
}
