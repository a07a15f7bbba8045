package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"nasmover/internal/cleanup"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cleanupDays      int
	cleanupYes       bool
	cleanupRecursive bool
)

var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [dir]",
	Short: "Delete files not modified for a number of days",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days := cleanupDays
		if !cmd.Flags().Changed("days") {
			days = cfg.CleanupDays
		}

		candidates, err := cleanup.Scan(args[0], cleanup.Options{
			Days:      days,
			Recursive: cleanupRecursive,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(candidates) == 0 {
			_, _ = fmt.Fprintf(out, "no files older than %d days in %s\n", days, args[0])
			return nil
		}

		rows := make([]table.Row, 0, len(candidates))
		for _, c := range candidates {
			rows = append(rows, table.Row{c.Path, c.ModTime.Format("2006-01-02 15:04"), humanize.Bytes(uint64(c.Size))})
		}
		renderTable(out, table.Row{"FILE", "MODIFIED", "SIZE"}, rows)

		total := humanize.Bytes(uint64(cleanup.TotalSize(candidates)))
		if !cleanupYes {
			if !stdinIsTerminal() {
				return cleanup.ErrConfirmationRequired
			}

			prompt := fmt.Sprintf("Delete %d files (%s)? [y/N] ", len(candidates), total)
			if !confirm(cmd.InOrStdin(), out, prompt) {
				_, _ = fmt.Fprintln(out, "aborted")
				return nil
			}
		}

		deleted, err := cleanup.Delete(candidates)
		_, _ = fmt.Fprintf(out, "deleted %d files\n", deleted)
		return err
	},
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 60, "delete files last modified more than this many days ago")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "skip the confirmation prompt")
	cleanupCmd.Flags().BoolVarP(&cleanupRecursive, "recursive", "r", false, "include files in subdirectories")
	rootCmd.AddCommand(cleanupCmd)
}
