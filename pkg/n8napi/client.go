// Package n8napi is a stateless client for the n8n public HTTP API. It
// forwards requests and responses without caching, retries, or local
// state; every call stands alone.
package n8napi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when the instance reports no such workflow or
// execution. Callers branch on it rather than parsing error text.
var ErrNotFound = errors.New("resource not found")

// Workflow is an n8n workflow document. Node and connection payloads stay
// raw: their shape belongs to the instance, not this client.
type Workflow struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Active      bool            `json:"active,omitempty"`
	Nodes       json.RawMessage `json:"nodes,omitempty"`
	Connections json.RawMessage `json:"connections,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	Tags        json.RawMessage `json:"tags,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// WorkflowList is one page of workflows.
type WorkflowList struct {
	Data       []Workflow `json:"data"`
	NextCursor *string    `json:"nextCursor,omitempty"`
}

// Execution is one workflow execution record.
type Execution struct {
	ID         json.Number     `json:"id"`
	WorkflowID string          `json:"workflowId,omitempty"`
	Status     string          `json:"status,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	Finished   bool            `json:"finished,omitempty"`
	StartedAt  string          `json:"startedAt,omitempty"`
	StoppedAt  string          `json:"stoppedAt,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// ExecutionList is one page of executions.
type ExecutionList struct {
	Data       []Execution `json:"data"`
	NextCursor *string     `json:"nextCursor,omitempty"`
}

// ListOptions narrows list calls. Zero values are omitted.
type ListOptions struct {
	Limit  int
	Cursor string
}

// Client talks to one n8n instance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the instance at baseURL, authenticating
// with the given API key.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "n8n-api").Logger(),
	}
}

// ListWorkflows returns one page of workflows.
func (c *Client) ListWorkflows(ctx context.Context, opts ListOptions) (*WorkflowList, error) {
	var list WorkflowList
	if err := c.do(ctx, http.MethodGet, "/api/v1/workflows"+listQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetWorkflow returns one workflow by ID.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var wf Workflow
	if err := c.do(ctx, http.MethodGet, "/api/v1/workflows/"+url.PathEscape(id), nil, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// CreateWorkflow creates a workflow and returns the stored document.
func (c *Client) CreateWorkflow(ctx context.Context, wf *Workflow) (*Workflow, error) {
	var created Workflow
	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows", wf, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWorkflow replaces a workflow document.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, wf *Workflow) (*Workflow, error) {
	var updated Workflow
	if err := c.do(ctx, http.MethodPut, "/api/v1/workflows/"+url.PathEscape(id), wf, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWorkflow deletes a workflow by ID.
func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/workflows/"+url.PathEscape(id), nil, nil)
}

// ActivateWorkflow turns a workflow on.
func (c *Client) ActivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var wf Workflow
	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows/"+url.PathEscape(id)+"/activate", nil, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// DeactivateWorkflow turns a workflow off.
func (c *Client) DeactivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var wf Workflow
	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows/"+url.PathEscape(id)+"/deactivate", nil, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// ListExecutions returns one page of executions.
func (c *Client) ListExecutions(ctx context.Context, opts ListOptions) (*ExecutionList, error) {
	var list ExecutionList
	if err := c.do(ctx, http.MethodGet, "/api/v1/executions"+listQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetExecution returns one execution by ID.
func (c *Client) GetExecution(ctx context.Context, id string) (*Execution, error) {
	var exec Execution
	if err := c.do(ctx, http.MethodGet, "/api/v1/executions/"+url.PathEscape(id), nil, &exec); err != nil {
		return nil, err
	}
	return &exec, nil
}

// DeleteExecution deletes an execution record.
func (c *Client) DeleteExecution(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/executions/"+url.PathEscape(id), nil, nil)
}

// TriggerWebhook invokes a workflow through its webhook path and returns
// the raw response body. This is how workflows run on demand; the public
// API has no direct execute endpoint.
func (c *Client) TriggerWebhook(ctx context.Context, webhookPath string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/webhook/" + strings.TrimLeft(webhookPath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(data))
	}
	return data, nil
}

// do performs one API request with auth, encoding the body and decoding
// the response when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-N8N-API-KEY", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call n8n API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("n8n API error (status %d): %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func listQuery(opts ListOptions) string {
	values := url.Values{}
	if opts.Limit > 0 {
		values.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Cursor != "" {
		values.Set("cursor", opts.Cursor)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
