package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/basketminer-cli/internal/basket"
	cfgpkg "github.com/KaramelBytes/basketminer-cli/internal/config"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDelimiter string
	flagNoHeader  bool
	flagNoCache   bool
	flagDBPath    string

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "basketminer",
	Short: "basketminer: market-basket itemset support and rule confidence",
	Long: `basketminer one-hot encodes transaction lists and scores every itemset and
every directional rule X => Y over a capped item universe, writing support and
confidence tables as CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.basketminer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "input delimiter: ',' | ';' | 'tab' | '|' (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHeader, "no-header", false, "treat the first line as a transaction, not a header")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "do not read or write the <file>.onehot.csv cache")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite run history path (overrides config db_path)")
}

func loadConfig() {
	logger = newLogger(debug)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("no-header") {
		cfg.HasHeader = !flagNoHeader
	}
	if f.Changed("no-cache") {
		cfg.CacheOneHot = !flagNoCache
	}
	if f.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	logger.Debug("configuration loaded",
		zap.Int("item_limit", cfg.ItemLimit),
		zap.String("delimiter", cfg.Delimiter),
		zap.Bool("has_header", cfg.HasHeader),
		zap.Bool("cache_onehot", cfg.CacheOneHot),
		zap.String("db_path", cfg.DBPath))
}

func newLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

// inputOptions builds basket options from the effective configuration.
func inputOptions() (basket.Options, error) {
	delim, err := cfgpkg.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return basket.Options{}, err
	}
	opt := basket.DefaultOptions()
	opt.Delimiter = delim
	opt.NoHeader = !cfg.HasHeader
	opt.NoCache = !cfg.CacheOneHot
	opt.Logger = logger.Named("basket")
	return opt, nil
}
