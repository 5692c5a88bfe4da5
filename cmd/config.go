package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/basketminer-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set basketminer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "item_limit: %d\n", cfg.ItemLimit)
		delim := cfg.Delimiter
		if delim == "" {
			delim = "(auto)"
		}
		fmt.Fprintf(out, "delimiter: %s\n", delim)
		fmt.Fprintf(out, "has_header: %t\n", cfg.HasHeader)
		fmt.Fprintf(out, "cache_onehot: %t\n", cfg.CacheOneHot)
		if cfg.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		}
		fmt.Fprintf(out, "precision: %d\n", cfg.Precision)
		fmt.Fprintf(out, "top: %d\n", cfg.Top)
		if cfg.DBPath != "" {
			fmt.Fprintf(out, "db_path: %s\n", cfg.DBPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file alone so flag and env overrides are not persisted.
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "item_limit":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for item_limit: %v", val)
			}
			c.ItemLimit = i
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			c.Delimiter = val
		case "has_header":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for has_header: %v", val)
			}
			c.HasHeader = b
		case "cache_onehot":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for cache_onehot: %v", val)
			}
			c.CacheOneHot = b
		case "output_dir":
			c.OutputDir = val
		case "precision":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for precision: %v", val)
			}
			c.Precision = i
		case "top":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for top: %v", val)
			}
			c.Top = i
		case "db_path":
			c.DBPath = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
