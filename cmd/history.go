package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"nasmover/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View relocation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := callDaemon(http.MethodGet, fmt.Sprintf("/history?n=%d", historyN))
		if err != nil {
			return err
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var histories []model.History
		if err := json.NewDecoder(resp.Body).Decode(&histories); err != nil {
			return fmt.Errorf("failed to decode history response: %w", err)
		}

		if len(histories) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history yet")
			return nil
		}

		rows := make([]table.Row, 0, len(histories))
		for _, h := range histories {
			status := "✓"
			if h.Status == model.StatusFailed {
				status = "✗"
			}

			target := h.DstPath
			if h.ErrMsg != "" {
				target = h.ErrMsg
			}

			rows = append(rows, table.Row{
				status,
				h.OccurredAt.Format("2006-01-02 15:04:05"),
				h.Action,
				h.SrcPath,
				target,
			})
		}

		renderTable(cmd.OutOrStdout(), table.Row{"", "TIME", "ACTION", "SOURCE", "DESTINATION / ERROR"}, rows)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	rootCmd.AddCommand(historyCmd)
}
