package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nasmover/internal/model"
	"nasmover/internal/repository"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := callDaemon(http.MethodGet, "/status")
		if err != nil {
			return err
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var result struct {
			Daemon  model.DaemonSnapshot `json:"daemon"`
			History repository.Stats     `json:"history"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		snap := result.Daemon
		lastActivity := "-"
		if snap.LastActivity != nil {
			lastActivity = snap.LastActivity.Format("2006-01-02 15:04:05")
		}

		out := cmd.OutOrStdout()
		renderTable(out, table.Row{"WATCH", "DEST", "EVENTS", "MOVED", "REMOVED", "FAILED", "IN FLIGHT", "LAST ACTIVITY"},
			[]table.Row{{snap.WatchRoot, snap.DestRoot, snap.Events, snap.Moved, snap.Removed, snap.Failed, snap.Inflight, lastActivity}})

		_, _ = fmt.Fprintf(out, "uptime: %s  history: %d ok / %d failed\n",
			time.Since(snap.StartedAt).Round(time.Second), result.History.Success, result.History.Failed)

		for _, line := range snap.Recent {
			_, _ = fmt.Fprintln(out, "  "+line)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
