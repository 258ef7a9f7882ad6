// Package release fetches authoritative node listings for arbitrary n8n
// release tags directly from the upstream source repository. Results are
// returned to the caller and never cached or persisted; version
// reconciliation against a catalog build is advisory only.
package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultBranch is used when the caller supplies no tag.
const DefaultBranch = "master"

// DefaultRepoBaseURL serves raw file content for the n8n monorepo.
const DefaultRepoBaseURL = "https://raw.githubusercontent.com/n8n-io/n8n"

const (
	platformVersionPath = "packages/cli/package.json"
	baseNodesPath       = "packages/nodes-base/package.json"
	langchainNodesPath  = "packages/@n8n/nodes-langchain/package.json"
)

// Manifest is the authoritative node listing for one release tag. It is
// transient: each fetch is independent and the result goes straight back
// to the caller.
type Manifest struct {
	VersionTag         string    `json:"versionTag"`
	N8NVersion         string    `json:"n8nVersion"`
	FetchedFrom        string    `json:"fetchedFrom"`
	BaseNodeFiles      []string  `json:"baseNodeFiles"`
	LangchainNodeFiles []string  `json:"langchainNodeFiles"`
	FetchedAt          time.Time `json:"fetchedAt"`
}

// FetchError means the platform's own version manifest could not be
// retrieved for the requested tag. It is fatal for that call.
type FetchError struct {
	Tag  string
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s for tag %q: %v", e.Path, e.Tag, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Reconciler fetches release manifests. Each call issues independent
// outbound requests with no shared mutable state and no retry policy.
type Reconciler struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewReconciler creates a reconciler against the default upstream
// repository. baseURL overrides the raw-content host when non-empty.
func NewReconciler(baseURL string, logger zerolog.Logger) *Reconciler {
	if baseURL == "" {
		baseURL = DefaultRepoBaseURL
	}
	return &Reconciler{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "release-reconciler").Logger(),
	}
}

// FetchManifest retrieves the platform version and the declared node
// lists of the base and AI-extension packages at the given tag or branch.
// A missing extension package is not fatal; the platform version file is.
func (r *Reconciler) FetchManifest(ctx context.Context, tag string) (*Manifest, error) {
	if tag == "" {
		tag = DefaultBranch
	}

	versionData, err := r.fetchFile(ctx, tag, platformVersionPath)
	if err != nil {
		return nil, &FetchError{Tag: tag, Path: platformVersionPath, Err: err}
	}
	version := gjson.GetBytes(versionData, "version").String()
	if version == "" {
		return nil, &FetchError{
			Tag:  tag,
			Path: platformVersionPath,
			Err:  fmt.Errorf("version manifest declares no version"),
		}
	}
	if _, err := semver.NewVersion(version); err != nil {
		r.logger.Warn().
			Str("version", version).
			Str("tag", tag).
			Msg("Platform version is not valid semver")
	}

	manifest := &Manifest{
		VersionTag:  tag,
		N8NVersion:  version,
		FetchedFrom: r.baseURL,
		FetchedAt:   time.Now(),
	}

	baseData, err := r.fetchFile(ctx, tag, baseNodesPath)
	if err != nil {
		return nil, &FetchError{Tag: tag, Path: baseNodesPath, Err: err}
	}
	manifest.BaseNodeFiles = nodeList(baseData)

	langchainData, err := r.fetchFile(ctx, tag, langchainNodesPath)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("tag", tag).
			Msg("AI-extension package not available at tag, extension list empty")
		manifest.LangchainNodeFiles = []string{}
	} else {
		manifest.LangchainNodeFiles = nodeList(langchainData)
	}

	r.logger.Debug().
		Str("tag", tag).
		Str("version", version).
		Int("base_nodes", len(manifest.BaseNodeFiles)).
		Int("langchain_nodes", len(manifest.LangchainNodeFiles)).
		Msg("Fetched release manifest")

	return manifest, nil
}

// fetchFile retrieves one raw file at a tag.
func (r *Reconciler) fetchFile(ctx context.Context, tag, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s", r.baseURL, tag, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// nodeList extracts the declared node module list from a package
// manifest. A manifest without one yields an empty list, not nil.
func nodeList(data []byte) []string {
	files := []string{}
	for _, entry := range gjson.GetBytes(data, "n8n.nodes").Array() {
		if s := entry.String(); s != "" {
			files = append(files, s)
		}
	}
	return files
}
