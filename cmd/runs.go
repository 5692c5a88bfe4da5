package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/basketminer-cli/internal/report"
	"github.com/KaramelBytes/basketminer-cli/internal/store"
)

var runsShowTop int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the recorded run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireStore()
		if err != nil {
			return err
		}
		defer db.Close()
		runs, err := db.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "- %s  %s  %s  rows=%d itemsets=%d rules=%d\n",
				shortID(r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Source,
				r.RowCount, r.SupportCount, r.RuleCount)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded run's top itemsets and rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireStore()
		if err != nil {
			return err
		}
		defer db.Close()
		ctx := cmd.Context()
		run, err := db.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		supports, err := db.Supports(ctx, run.ID)
		if err != nil {
			return err
		}
		rules, err := db.TopConfidences(ctx, run.ID, runsShowTop)
		if err != nil {
			return err
		}

		opt := report.DefaultOptions()
		opt.Precision = cfg.Precision
		opt.Top = runsShowTop
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s\n", run.ID)
		fmt.Fprintf(out, "source: %s\n", run.Source)
		fmt.Fprintf(out, "created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "rows: %d  item_limit: %d\n", run.RowCount, run.ItemLimit)
		fmt.Fprintf(out, "items: %s\n\n", strings.ReplaceAll(run.Items, ",", ", "))
		fmt.Fprint(out, report.RenderSupportTable(supports, opt))
		if run.RuleCount > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, report.RenderConfidenceTable(rules, opt))
		}
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireStore()
		if err != nil {
			return err
		}
		defer db.Close()
		run, err := db.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteRun(cmd.Context(), run.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted run %s\n", run.ID)
		return nil
	},
}

// requireStore is openStore for commands that make no sense without history.
func requireStore() (*store.Store, error) {
	db, err := openStore()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, fmt.Errorf("no run history configured (set db_path or pass --db)")
	}
	return db, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	runsShowCmd.Flags().IntVar(&runsShowTop, "top", 20, "rows shown per table (0 = all)")
}
