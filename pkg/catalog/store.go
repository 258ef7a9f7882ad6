package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/nodes"
)

// Store is the persistent node catalog: one row per node type plus a
// singleton metadata table. Rebuilds replace everything in a single
// transaction; query-time access opens the database read-only.
type Store struct {
	db       *sql.DB
	logger   zerolog.Logger
	readOnly bool
}

// Open opens the catalog for writing, creating the schema if needed.
// Only the rebuild process opens the store this way.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// WAL keeps concurrent readers from blocking on the rebuild writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "catalog-store").Logger(),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// OpenReadOnly opens the catalog for query-time access. Writes fail.
func OpenReadOnly(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	return &Store{
		db:       db,
		logger:   logger.With().Str("component", "catalog-store").Logger(),
		readOnly: true,
	}, nil
}

// initSchema creates database tables
func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			node_type TEXT PRIMARY KEY,
			package_name TEXT NOT NULL,
			display_name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			development_style TEXT,
			is_ai_tool INTEGER NOT NULL DEFAULT 0,
			is_trigger INTEGER NOT NULL DEFAULT 0,
			is_webhook INTEGER NOT NULL DEFAULT 0,
			is_versioned INTEGER NOT NULL DEFAULT 0,
			version TEXT,
			documentation TEXT,
			properties_schema TEXT,
			operations TEXT,
			credentials_required TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_package ON nodes(package_name);
		CREATE INDEX IF NOT EXISTS idx_nodes_category ON nodes(category);
		CREATE INDEX IF NOT EXISTS idx_nodes_ai_tool ON nodes(is_ai_tool);

		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// ReplaceAll atomically swaps the entire catalog for a new build: all
// node and metadata rows are dropped and reinserted in one transaction.
// Duplicate node types within one build resolve last-write-wins.
func (s *Store) ReplaceAll(descriptors []nodes.NodeDescriptor, meta BuildMetadata) error {
	if s.readOnly {
		return errors.New("catalog store is opened read-only")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO nodes (
			node_type, package_name, display_name, description, category,
			development_style, is_ai_tool, is_trigger, is_webhook,
			is_versioned, version, documentation, properties_schema,
			operations, credentials_required
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range descriptors {
		_, err := stmt.Exec(
			d.NodeType,
			d.PackageName,
			d.DisplayName,
			nullable(d.Description),
			nullable(d.Category),
			nullable(d.DevelopmentStyle),
			boolInt(d.IsAITool),
			boolInt(d.IsTrigger),
			boolInt(d.IsWebhook),
			boolInt(d.IsVersioned),
			nullable(d.Version),
			nullableDoc(d.Documentation),
			nullable(d.PropertiesSchema),
			nullable(d.Operations),
			nullable(d.CredentialsRequired),
		)
		if err != nil {
			return fmt.Errorf("failed to insert node %s: %w", d.NodeType, err)
		}
	}

	metaRows := map[string]string{
		metaKeyVersion:       meta.N8NVersion,
		metaKeyRebuiltAt:     meta.RebuiltAt.UTC().Format(time.RFC3339),
		metaKeySource:        meta.Source,
		metaKeyDocsExtracted: strconv.Itoa(meta.DocsExtracted),
	}
	for key, value := range metaRows {
		if _, err := tx.Exec("INSERT INTO metadata (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}

	s.logger.Info().
		Int("nodes", len(descriptors)).
		Str("n8n_version", meta.N8NVersion).
		Str("source", meta.Source).
		Msg("Catalog replaced")

	return nil
}

const descriptorColumns = `
	node_type, package_name, display_name,
	COALESCE(description, ''), COALESCE(category, ''),
	COALESCE(development_style, ''),
	is_ai_tool, is_trigger, is_webhook, is_versioned,
	COALESCE(version, ''), documentation,
	COALESCE(properties_schema, ''), COALESCE(operations, ''),
	COALESCE(credentials_required, '')`

// Get returns the full descriptor for an exact node type, or ErrNotFound.
func (s *Store) Get(nodeType string) (*nodes.NodeDescriptor, error) {
	row := s.db.QueryRow(
		"SELECT"+descriptorColumns+" FROM nodes WHERE node_type = ?",
		nodeType,
	)
	d, err := scanDescriptor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query node %s: %w", nodeType, err)
	}
	return d, nil
}

// Search matches the keyword case-insensitively as a substring against
// type identifier, display name, description, and documentation text.
// Results carry the reduced projection only.
func (s *Store) Search(keyword string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"

	rows, err := s.db.Query(`
		SELECT node_type, package_name, display_name,
		       COALESCE(description, ''), COALESCE(category, '')
		FROM nodes
		WHERE LOWER(node_type) LIKE ? ESCAPE '\'
		   OR LOWER(display_name) LIKE ? ESCAPE '\'
		   OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\'
		   OR LOWER(COALESCE(documentation, '')) LIKE ? ESCAPE '\'
		ORDER BY node_type
		LIMIT ?
	`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search nodes: %w", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.NodeType, &r.PackageName, &r.DisplayName, &r.Description, &r.Category); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListByCategory returns full descriptors for every node in a category.
func (s *Store) ListByCategory(category string) ([]nodes.NodeDescriptor, error) {
	return s.queryDescriptors(
		"SELECT"+descriptorColumns+" FROM nodes WHERE category = ? ORDER BY node_type",
		category,
	)
}

// ListCategories enumerates the distinct non-empty categories.
func (s *Store) ListCategories() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT category FROM nodes
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListAICapable returns full descriptors for every AI-capable node.
func (s *Store) ListAICapable() ([]nodes.NodeDescriptor, error) {
	return s.queryDescriptors(
		"SELECT" + descriptorColumns + " FROM nodes WHERE is_ai_tool = 1 ORDER BY node_type",
	)
}

// BuildMetadata returns the metadata of the current build, or nil when
// the catalog has never been built.
func (s *Store) BuildMetadata() (*BuildMetadata, error) {
	rows, err := s.db.Query("SELECT key, value FROM metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	meta := &BuildMetadata{
		N8NVersion: values[metaKeyVersion],
		Source:     values[metaKeySource],
	}
	if ts, err := time.Parse(time.RFC3339, values[metaKeyRebuiltAt]); err == nil {
		meta.RebuiltAt = ts
	}
	if n, err := strconv.Atoi(values[metaKeyDocsExtracted]); err == nil {
		meta.DocsExtracted = n
	}
	return meta, nil
}

// BuildVersion returns the stored source version tag, or "" when the
// catalog has never been built.
func (s *Store) BuildVersion() (string, error) {
	var version string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", metaKeyVersion).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query build version: %w", err)
	}
	return version, nil
}

// Count returns the number of cataloged node types.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) queryDescriptors(query string, args ...any) ([]nodes.NodeDescriptor, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var descriptors []nodes.NodeDescriptor
	for rows.Next() {
		d, err := scanDescriptor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		descriptors = append(descriptors, *d)
	}
	return descriptors, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDescriptor(row rowScanner) (*nodes.NodeDescriptor, error) {
	var d nodes.NodeDescriptor
	var doc sql.NullString
	err := row.Scan(
		&d.NodeType,
		&d.PackageName,
		&d.DisplayName,
		&d.Description,
		&d.Category,
		&d.DevelopmentStyle,
		&d.IsAITool,
		&d.IsTrigger,
		&d.IsWebhook,
		&d.IsVersioned,
		&d.Version,
		&doc,
		&d.PropertiesSchema,
		&d.Operations,
		&d.CredentialsRequired,
	)
	if err != nil {
		return nil, err
	}
	if doc.Valid {
		d.Documentation = &doc.String
	}
	return &d, nil
}

// escapeLike neutralizes LIKE metacharacters so the keyword matches as a
// literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableDoc(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
