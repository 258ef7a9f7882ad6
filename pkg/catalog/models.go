package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested node type has no catalog row.
// Callers branch on it instead of handling a fault.
var ErrNotFound = errors.New("node type not found")

// Provenance of a catalog build.
const (
	SourceLocalOnly   = "local-only"
	SourceLocalGithub = "local+github"
)

// Metadata key names in the singleton-row metadata table.
const (
	metaKeyVersion       = "n8n_version"
	metaKeyRebuiltAt     = "rebuilt_at"
	metaKeySource        = "source"
	metaKeyDocsExtracted = "docs_extracted"
)

// BuildMetadata describes one catalog build. It is fully replaced on
// every rebuild, never partially updated.
type BuildMetadata struct {
	N8NVersion    string
	RebuiltAt     time.Time
	Source        string
	DocsExtracted int
}

// SearchResult is the reduced projection returned by keyword search.
// Documentation, schema, and credential payloads are deliberately
// excluded to keep responses small; a full lookup by exact type retrieves
// the complete descriptor.
type SearchResult struct {
	NodeType    string
	PackageName string
	DisplayName string
	Description string
	Category    string
}
