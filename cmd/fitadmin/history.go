package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/history"
)

var (
	flagHistoryLimit  int
	flagHistoryFailed bool
	flagHistoryPath   string
	flagHistoryYes    bool
)

var errHistoryDisabled = errors.New("history is disabled (enable it in options or drop --no-history)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded API exchanges",
	Long: `Browse the local log of API exchanges. Only metadata is recorded:
method, path, status, response shape, duration and error message.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent exchanges, newest first",
	Args:  cobra.NoArgs,
	RunE: withHistory(func(cmd *cobra.Command, args []string, h *history.Manager) error {
		entries, err := h.List(history.Filter{
			Limit:      flagHistoryLimit,
			FailedOnly: flagHistoryFailed,
			Path:       flagHistoryPath,
		})
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []history.Entry{}
		}
		return printResult(cmd, entries)
	}),
}

var historyShowCmd = &cobra.Command{
	Use:   "show <request-id>",
	Short: "Show one exchange by request ID",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(cmd *cobra.Command, args []string, h *history.Manager) error {
		entry, err := h.Get(args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, entry)
	}),
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one entry by its numeric ID",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(cmd *cobra.Command, args []string, h *history.Manager) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q: %w", args[0], err)
		}
		return h.Delete(id)
	}),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded exchange",
	Args:  cobra.NoArgs,
	RunE: withHistory(func(cmd *cobra.Command, args []string, h *history.Manager) error {
		count, err := h.GetCount()
		if err != nil {
			return err
		}
		prompter := cli.NewPrompter(os.Stdin, cmd.ErrOrStderr())
		if !flagHistoryYes && !prompter.Confirm(fmt.Sprintf("Delete %d history entries?", count)) {
			return nil
		}
		if err := h.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Cleared %d entries\n", count)
		return nil
	}),
}

// withHistory runs fn against the app's history store
func withHistory(fn func(cmd *cobra.Command, args []string, h *history.Manager) error) func(*cobra.Command, []string) error {
	return withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		if app.History == nil {
			return errHistoryDisabled
		}
		return fn(cmd, args, app.History)
	})
}

func init() {
	historyListCmd.Flags().IntVar(&flagHistoryLimit, "limit", 50, "Maximum entries to show (0 for all)")
	historyListCmd.Flags().BoolVar(&flagHistoryFailed, "failed", false, "Only show failed exchanges")
	historyListCmd.Flags().StringVar(&flagHistoryPath, "path", "", "Only show paths containing this text")
	historyClearCmd.Flags().BoolVarP(&flagHistoryYes, "yes", "y", false, "Skip confirmation")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
}
