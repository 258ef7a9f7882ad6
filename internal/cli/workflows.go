package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/pkg/n8napi"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Manage workflows on a live n8n instance",
}

var workflowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflows",
	RunE:  runWorkflowsList,
}

var workflowsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowsGet,
}

var workflowsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowsDelete,
}

var workflowsRunCmd = &cobra.Command{
	Use:   "run <webhook-path>",
	Short: "Trigger a workflow through its webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowsRun,
}

func init() {
	workflowsCmd.AddCommand(workflowsListCmd)
	workflowsCmd.AddCommand(workflowsGetCmd)
	workflowsCmd.AddCommand(workflowsDeleteCmd)
	workflowsCmd.AddCommand(workflowsRunCmd)
	rootCmd.AddCommand(workflowsCmd)
}

func newAPIClient() (*n8napi.Client, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, err
	}
	if cfg.N8N.APIKey == "" {
		return nil, fmt.Errorf("n8n API key is not configured (set n8n.api_key or N8NCTL_N8N_API_KEY)")
	}
	return n8napi.NewClient(cfg.N8N.APIURL, cfg.N8N.APIKey, log), nil
}

func runWorkflowsList(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	list, err := client.ListWorkflows(cmd.Context(), n8napi.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}

	for _, wf := range list.Data {
		state := "inactive"
		if wf.Active {
			state = "active"
		}
		fmt.Printf("%-24s %-10s %s\n", wf.ID, state, wf.Name)
	}
	return nil
}

func runWorkflowsGet(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	wf, err := client.GetWorkflow(cmd.Context(), args[0])
	if errors.Is(err, n8napi.ErrNotFound) {
		fmt.Printf("Workflow %q not found\n", args[0])
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get workflow: %w", err)
	}

	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render workflow: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runWorkflowsDelete(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	if err := client.DeleteWorkflow(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, n8napi.ErrNotFound) {
			fmt.Printf("Workflow %q not found\n", args[0])
			return nil
		}
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	fmt.Printf("Deleted workflow %s\n", args[0])
	return nil
}

func runWorkflowsRun(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	var payload any
	if stat, _ := os.Stdin.Stat(); stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		if err := json.NewDecoder(os.Stdin).Decode(&payload); err != nil {
			return fmt.Errorf("failed to read payload from stdin: %w", err)
		}
	}

	result, err := client.TriggerWebhook(cmd.Context(), args[0], payload)
	if err != nil {
		return fmt.Errorf("failed to trigger workflow: %w", err)
	}
	if len(result) > 0 {
		fmt.Println(string(result))
	}
	return nil
}
