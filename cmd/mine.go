package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/basketminer-cli/internal/report"
)

var (
	mineItemLimit    int
	mineOutputDir    string
	mineTop          int
	minePrecision    int
	mineNoConfidence bool
	mineMarkdown     bool
	mineQuiet        bool
)

var mineCmd = &cobra.Command{
	Use:   "mine <file>",
	Short: "Compute itemset supports and rule confidences for a transactions CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settingsFromFlags(cmd, mineItemLimit, mineOutputDir, mineTop, minePrecision, mineNoConfidence)
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}
		res, err := mineFile(cmd.Context(), args[0], s, db)
		if err != nil {
			return err
		}
		if !mineQuiet {
			printResult(cmd.OutOrStdout(), res, s, mineMarkdown)
		}
		return nil
	},
}

// settingsFromFlags merges command flags over the loaded configuration.
func settingsFromFlags(cmd *cobra.Command, itemLimit int, outputDir string, top, precision int, noConfidence bool) (mineSettings, error) {
	s := mineSettings{
		ItemLimit:    cfg.ItemLimit,
		OutputDir:    cfg.OutputDir,
		NoConfidence: noConfidence,
		Report:       report.DefaultOptions(),
	}
	s.Report.Precision = cfg.Precision
	s.Report.Top = cfg.Top
	f := cmd.Flags()
	if f.Changed("item-limit") {
		if itemLimit < 0 {
			return s, fmt.Errorf("--item-limit must be >= 0")
		}
		s.ItemLimit = itemLimit
	}
	if f.Changed("output-dir") {
		s.OutputDir = outputDir
	}
	if f.Changed("top") {
		s.Report.Top = top
	}
	if f.Changed("precision") {
		if precision < 0 || precision > 15 {
			return s, fmt.Errorf("--precision must be between 0 and 15")
		}
		s.Report.Precision = precision
	}
	return s, nil
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&mineItemLimit, "item-limit", "n", 10, "keep only the first N items of the sorted universe (0 = all, max 13)")
	mineCmd.Flags().StringVarP(&mineOutputDir, "output-dir", "o", "", "directory for <name>.support.csv and <name>.confidence.csv")
	mineCmd.Flags().IntVar(&mineTop, "top", 20, "rows shown in console tables (0 = all)")
	mineCmd.Flags().IntVar(&minePrecision, "precision", 6, "decimals written for support and confidence")
	mineCmd.Flags().BoolVar(&mineNoConfidence, "no-confidence", false, "stop after the support table")
	mineCmd.Flags().BoolVar(&mineMarkdown, "markdown", false, "print a Markdown summary instead of tables")
	mineCmd.Flags().BoolVar(&mineQuiet, "quiet", false, "suppress console output")
}
