package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/basketminer-cli/internal/basket"
)

var (
	mbItemLimit    int
	mbOutputDir    string
	mbTop          int
	mbPrecision    int
	mbNoConfidence bool
	mbMarkdown     bool
	mbQuiet        bool
)

var mineBatchCmd = &cobra.Command{
	Use:   "mine-batch <files...>",
	Short: "Mine multiple transaction files with progress output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		s, err := settingsFromFlags(cmd, mbItemLimit, mbOutputDir, mbTop, mbPrecision, mbNoConfidence)
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

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !mbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			res, err := mineFile(cmd.Context(), path, s, db)
			if err != nil {
				return err
			}
			if !mbQuiet {
				printResult(out, res, s, mbMarkdown)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, skips one-hot caches (and their sidecars) that
// sit next to their source, de-duplicates, and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if strings.HasSuffix(m, basket.CacheMetaSuffix) {
				continue
			}
			if strings.HasSuffix(m, basket.CacheSuffix) {
				if _, err := os.Stat(strings.TrimSuffix(m, basket.CacheSuffix)); err == nil {
					continue
				}
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(mineBatchCmd)
	mineBatchCmd.Flags().IntVarP(&mbItemLimit, "item-limit", "n", 10, "keep only the first N items of the sorted universe (0 = all, max 13)")
	mineBatchCmd.Flags().StringVarP(&mbOutputDir, "output-dir", "o", "", "directory for <name>.support.csv and <name>.confidence.csv")
	mineBatchCmd.Flags().IntVar(&mbTop, "top", 20, "rows shown in console tables (0 = all)")
	mineBatchCmd.Flags().IntVar(&mbPrecision, "precision", 6, "decimals written for support and confidence")
	mineBatchCmd.Flags().BoolVar(&mbNoConfidence, "no-confidence", false, "stop after the support tables")
	mineBatchCmd.Flags().BoolVar(&mbMarkdown, "markdown", false, "print Markdown summaries instead of tables")
	mineBatchCmd.Flags().BoolVar(&mbQuiet, "quiet", false, "suppress progress and non-essential output")
}
