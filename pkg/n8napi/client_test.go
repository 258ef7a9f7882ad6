package n8napi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).Level(zerolog.Disabled)
}

const testKey = "test-api-key"

// newInstance fakes an n8n public API with one stored workflow.
func newInstance(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	requireKey := func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/webhook/ping" {
			return true
		}
		if r.Header.Get("X-N8N-API-KEY") != testKey {
			w.WriteHeader(http.StatusUnauthorized)
			return false
		}
		return true
	}

	mux.HandleFunc("GET /api/v1/workflows", func(w http.ResponseWriter, r *http.Request) {
		if !requireKey(w, r) {
			return
		}
		json.NewEncoder(w).Encode(WorkflowList{Data: []Workflow{{ID: "wf-1", Name: "Daily sync", Active: true}}})
	})
	mux.HandleFunc("GET /api/v1/workflows/wf-1", func(w http.ResponseWriter, r *http.Request) {
		if !requireKey(w, r) {
			return
		}
		json.NewEncoder(w).Encode(Workflow{ID: "wf-1", Name: "Daily sync", Active: true})
	})
	mux.HandleFunc("POST /api/v1/workflows", func(w http.ResponseWriter, r *http.Request) {
		if !requireKey(w, r) {
			return
		}
		var wf Workflow
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wf))
		wf.ID = "wf-2"
		json.NewEncoder(w).Encode(wf)
	})
	mux.HandleFunc("PUT /api/v1/workflows/wf-1", func(w http.ResponseWriter, r *http.Request) {
		if !requireKey(w, r) {
			return
		}
		var wf Workflow
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wf))
		wf.ID = "wf-1"
		json.NewEncoder(w).Encode(wf)
	})
	mux.HandleFunc("DELETE /api/v1/workflows/wf-1", func(w http.ResponseWriter, r *http.Request) {
		if !requireKey(w, r) {
			return
		}
		json.NewEncoder(w).Encode(Workflow{ID: "wf-1"})
	})
	mux.HandleFunc("GET /api/v1/executions", func(w http.ResponseWriter, r *http.Request) {
		if !requireKey(w, r) {
			return
		}
		json.NewEncoder(w).Encode(ExecutionList{Data: []Execution{{ID: "7", WorkflowID: "wf-1", Status: "success"}}})
	})
	mux.HandleFunc("POST /webhook/ping", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"pong": "ok"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Workflows(t *testing.T) {
	server := newInstance(t)
	client := NewClient(server.URL, testKey, testLogger())
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		list, err := client.ListWorkflows(ctx, ListOptions{})
		require.NoError(t, err)
		require.Len(t, list.Data, 1)
		assert.Equal(t, "Daily sync", list.Data[0].Name)
	})

	t.Run("get", func(t *testing.T) {
		wf, err := client.GetWorkflow(ctx, "wf-1")
		require.NoError(t, err)
		assert.Equal(t, "wf-1", wf.ID)
		assert.True(t, wf.Active)
	})

	t.Run("create echoes the stored document", func(t *testing.T) {
		created, err := client.CreateWorkflow(ctx, &Workflow{Name: "New flow"})
		require.NoError(t, err)
		assert.Equal(t, "wf-2", created.ID)
		assert.Equal(t, "New flow", created.Name)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := client.UpdateWorkflow(ctx, "wf-1", &Workflow{Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, client.DeleteWorkflow(ctx, "wf-1"))
	})

	t.Run("missing workflow is ErrNotFound", func(t *testing.T) {
		_, err := client.GetWorkflow(ctx, "wf-404")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong API key surfaces the status", func(t *testing.T) {
		bad := NewClient(server.URL, "wrong-key", testLogger())
		_, err := bad.ListWorkflows(ctx, ListOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestClient_Executions(t *testing.T) {
	server := newInstance(t)
	client := NewClient(server.URL, testKey, testLogger())

	list, err := client.ListExecutions(context.Background(), ListOptions{Limit: 5})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "wf-1", list.Data[0].WorkflowID)
	assert.Equal(t, "success", list.Data[0].Status)
}

func TestClient_TriggerWebhook(t *testing.T) {
	server := newInstance(t)
	client := NewClient(server.URL, testKey, testLogger())

	t.Run("posts the payload and returns the raw body", func(t *testing.T) {
		result, err := client.TriggerWebhook(context.Background(), "ping", map[string]string{"hello": "world"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"pong": "ok"}`, string(result))
	})

	t.Run("unknown webhook is ErrNotFound", func(t *testing.T) {
		_, err := client.TriggerWebhook(context.Background(), "missing", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
