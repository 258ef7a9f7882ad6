package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDocsBaseURL serves raw file content for the n8n documentation
// tree.
const DefaultDocsBaseURL = "https://raw.githubusercontent.com/n8n-io/n8n-docs/main"

// wellKnownDocs maps normalized node types to their documentation paths.
// The set is deliberately small: the fetch is opportunistic, not
// exhaustive, and nodes outside it fall back to synthesized docs.
var wellKnownDocs = map[string]string{
	"nodes-base.slack":             "docs/integrations/builtin/app-nodes/n8n-nodes-base.slack.md",
	"nodes-base.httpRequest":       "docs/integrations/builtin/core-nodes/n8n-nodes-base.httprequest.md",
	"nodes-base.webhook":           "docs/integrations/builtin/core-nodes/n8n-nodes-base.webhook.md",
	"nodes-base.code":              "docs/integrations/builtin/core-nodes/n8n-nodes-base.code.md",
	"nodes-base.googleSheets":      "docs/integrations/builtin/app-nodes/n8n-nodes-base.googlesheets.md",
	"nodes-base.gmail":             "docs/integrations/builtin/app-nodes/n8n-nodes-base.gmail.md",
	"nodes-base.notion":            "docs/integrations/builtin/app-nodes/n8n-nodes-base.notion.md",
	"nodes-base.telegram":          "docs/integrations/builtin/app-nodes/n8n-nodes-base.telegram.md",
	"nodes-base.if":                "docs/integrations/builtin/core-nodes/n8n-nodes-base.if.md",
	"nodes-base.merge":             "docs/integrations/builtin/core-nodes/n8n-nodes-base.merge.md",
	"nodes-langchain.agent":        "docs/integrations/builtin/cluster-nodes/root-nodes/n8n-nodes-langchain.agent.md",
	"nodes-langchain.chainLlm":     "docs/integrations/builtin/cluster-nodes/root-nodes/n8n-nodes-langchain.chainllm.md",
	"nodes-langchain.lmChatOpenAi": "docs/integrations/builtin/cluster-nodes/sub-nodes/n8n-nodes-langchain.lmchatopenai.md",
}

// DocsFetcher opportunistically pulls per-node documentation from the
// upstream documentation tree. Partial failures are silently skipped.
type DocsFetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDocsFetcher creates a docs fetcher. baseURL overrides the
// documentation host when non-empty.
func NewDocsFetcher(baseURL string, logger zerolog.Logger) *DocsFetcher {
	if baseURL == "" {
		baseURL = DefaultDocsBaseURL
	}
	return &DocsFetcher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "docs-fetcher").Logger(),
	}
}

// FetchNodeDocs returns whatever documentation could be retrieved, keyed
// by normalized node type. A node whose fetch fails is simply absent.
func (f *DocsFetcher) FetchNodeDocs(ctx context.Context) map[string]string {
	docs := make(map[string]string)

	for nodeType, path := range wellKnownDocs {
		content, err := f.fetchDoc(ctx, path)
		if err != nil {
			f.logger.Debug().
				Err(err).
				Str("node", nodeType).
				Msg("Documentation fetch skipped")
			continue
		}
		docs[nodeType] = content
	}

	f.logger.Info().
		Int("fetched", len(docs)).
		Int("known", len(wellKnownDocs)).
		Msg("Documentation fetch completed")

	return docs
}

func (f *DocsFetcher) fetchDoc(ctx context.Context, path string) (string, error) {
	url := f.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty document at %s", url)
	}
	return string(data), nil
}
