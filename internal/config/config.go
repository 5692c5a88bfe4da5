package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Mining
	ItemLimit int `mapstructure:"item_limit" yaml:"item_limit"`

	// Input
	Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`
	HasHeader   bool   `mapstructure:"has_header" yaml:"has_header"`
	CacheOneHot bool   `mapstructure:"cache_onehot" yaml:"cache_onehot"`

	// Output
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Precision int    `mapstructure:"precision" yaml:"precision"`
	Top       int    `mapstructure:"top" yaml:"top"`

	// Run history (SQLite); empty disables recording
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// Dir returns ~/.basketminer.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".basketminer"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.basketminer/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded into the environment first without overriding
// variables that are already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(cfgFile, true)
}

// LoadFile loads only the config file over defaults, ignoring the
// environment. Use it before Save so env values are not written to disk.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, withEnv bool) (*Global, error) {
	v := viper.New()
	if withEnv {
		v.SetEnvPrefix("BASKETMINER")
		v.AutomaticEnv()
	}

	d := Defaults()
	v.SetDefault("item_limit", d.ItemLimit)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("has_header", d.HasHeader)
	v.SetDefault("cache_onehot", d.CacheOneHot)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("top", d.Top)
	v.SetDefault("db_path", d.DBPath)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the miner cannot run with.
func (c *Global) Validate() error {
	if c.ItemLimit < 0 {
		return fmt.Errorf("item_limit must be >= 0, got %d", c.ItemLimit)
	}
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("precision must be between 0 and 15, got %d", c.Precision)
	}
	if c.Top < 0 {
		return fmt.Errorf("top must be >= 0, got %d", c.Top)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// ParseDelimiter maps a flag or config value to a CSV delimiter rune.
// The empty string means auto-detect and yields 0.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | 'tab' | '|')", s)
	}
}

// Defaults returns the configuration used when no file or env is present.
func Defaults() *Global {
	return &Global{
		ItemLimit:   10,
		HasHeader:   true,
		CacheOneHot: true,
		Precision:   6,
		Top:         20,
	}
}
