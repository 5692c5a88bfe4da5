package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/basketminer-cli/internal/basket"
)

var (
	encodeForce  bool
	encodeOutput string
)

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "One-hot encode a transactions CSV and write the .onehot.csv cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := inputOptions()
		if err != nil {
			return err
		}
		if encodeOutput == "" && !encodeForce && basket.CacheFresh(path, opt) {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cache up to date: %s\n", basket.CachePath(path))
			return nil
		}
		m, err := basket.EncodeFile(path, opt)
		if err != nil {
			return err
		}
		out := encodeOutput
		if out == "" {
			out = basket.CachePath(path)
			err = basket.WriteCache(path, m, opt)
		} else {
			err = basket.SaveMatrixFile(out, m, ',')
		}
		if err != nil {
			return fmt.Errorf("write one-hot file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Encoded %d transactions x %d items to %s\n", m.NumRows(), m.NumColumns(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolVarP(&encodeForce, "force", "f", false, "re-encode even when the cache matches the source")
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "write the one-hot matrix here instead of <file>.onehot.csv")
}
