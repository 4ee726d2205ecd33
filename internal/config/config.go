package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the explicit configuration threaded through every command. There
// is no package-level mutable default state: commands receive one Config
// built at startup.
type Config struct {
	// CSVPath locates the morphology dataset.
	CSVPath string `mapstructure:"csv_path" yaml:"csv_path"`
	// OutputDir is the root under which save folders are created.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// DefaultColumns is the fallback column selection when a request has
	// fewer than 2 valid columns, and the selection used when none is given.
	DefaultColumns []int `mapstructure:"default_columns" yaml:"default_columns"`
	// Colors maps taxon names to hex colors for plot markers. Entries here
	// override the built-in defaults key by key.
	Colors map[string]string `mapstructure:"colors" yaml:"colors"`
}

// DefaultColors returns the built-in taxon color map.
func DefaultColors() map[string]string {
	return map[string]string{
		"Hominidae":       "#7f48b5",
		"Hylobatidae":     "#c195ed",
		"Cercopithecidae": "#f0bb3e",
		"Platyrrhini":     "#f2e3bd",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.cerebellum/config.yaml, creating the directory if
// necessary.
func Save(c *Config, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cerebellum")
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
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CBP")
	v.AutomaticEnv()

	v.SetDefault("csv_path", "all_species_values.csv")
	v.SetDefault("output_dir", ".")
	v.SetDefault("default_columns", []int{4, 3, 1})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cerebellum")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Configured colors overlay the built-in map key by key, so a partial
	// colors section recolors one taxon without losing the rest.
	merged := DefaultColors()
	for taxon, hex := range c.Colors {
		merged[taxon] = hex
	}
	c.Colors = merged
	return &c, nil
}
