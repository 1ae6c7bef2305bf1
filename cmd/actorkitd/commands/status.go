package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running instance's health and task roster",
	Long:  `Display health and the task/actor roster of a running actorkitd instance.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 3 * time.Second}

	healthResp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", addr, err)
	}
	defer healthResp.Body.Close()

	tasksResp, err := client.Get("http://" + addr + "/tasks")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	defer tasksResp.Body.Close()

	var snapshot map[string]any
	if err := json.NewDecoder(tasksResp.Body).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to decode task snapshot: %w", err)
	}

	if outputFormat == "json" {
		return outputJSON(snapshot)
	}

	fmt.Printf("actorkitd at %s: healthy (status %d)\n", addr, healthResp.StatusCode)
	tasks, _ := snapshot["tasks"].([]any)
	fmt.Printf("%d task(s) running\n", len(tasks))
	for _, t := range tasks {
		tm, ok := t.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  - %v\n", tm["name"])
	}
	return nil
}
