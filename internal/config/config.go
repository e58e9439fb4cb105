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

	"github.com/KaramelBytes/nestor/internal/recommend"
)

// Global configuration structure.
type Global struct {
	DataPath   string `mapstructure:"data_path" yaml:"data_path"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"`

	// Initial query, used when a command or request does not override it.
	DefaultMode   string  `mapstructure:"default_mode" yaml:"default_mode"`
	MinPrice      float64 `mapstructure:"min_price" yaml:"min_price"`
	MaxPrice      float64 `mapstructure:"max_price" yaml:"max_price"`
	SchoolRating  float64 `mapstructure:"school_rating" yaml:"school_rating"`
	Bedrooms      int     `mapstructure:"bedrooms" yaml:"bedrooms"`
	MaxCrime      float64 `mapstructure:"max_crime" yaml:"max_crime"`
	MinHealthcare float64 `mapstructure:"min_healthcare" yaml:"min_healthcare"`
}

// Params returns the configured default query.
func (c *Global) Params() recommend.Params {
	return recommend.Params{
		Mode:          recommend.Mode(c.DefaultMode),
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		SchoolRating:  c.SchoolRating,
		Bedrooms:      c.Bedrooms,
		MaxCrime:      c.MaxCrime,
		MinHealthcare: c.MinHealthcare,
	}
}

// Validate checks the default mode and the thresholds of every mode, so a
// saved config never holds a value some mode would refuse later.
func (c *Global) Validate() error {
	p := c.Params()
	if _, err := recommend.ParseMode(c.DefaultMode); err != nil {
		return err
	}
	for _, m := range recommend.Modes() {
		p.Mode = m
		if _, err := p.Query(); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Global {
	d := recommend.DefaultParams()
	return &Global{
		DataPath:      "housing_data.csv",
		OutputDir:     ".",
		ListenAddr:    "127.0.0.1:8080",
		LogLevel:      "info",
		LogFormat:     "console",
		DefaultMode:   string(d.Mode),
		MinPrice:      d.MinPrice,
		MaxPrice:      d.MaxPrice,
		SchoolRating:  d.SchoolRating,
		Bedrooms:      d.Bedrooms,
		MaxCrime:      d.MaxCrime,
		MinHealthcare: d.MinHealthcare,
	}
}

// Dir returns ~/.nestor.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nestor"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.nestor/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
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

// Load loads configuration from file, .env, env, and defaults.
// Precedence: env (NESTOR_*, including values from ./.env) > config file > defaults.
// Flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("NESTOR")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("data_path", def.DataPath)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("default_mode", def.DefaultMode)
	v.SetDefault("min_price", def.MinPrice)
	v.SetDefault("max_price", def.MaxPrice)
	v.SetDefault("school_rating", def.SchoolRating)
	v.SetDefault("bedrooms", def.Bedrooms)
	v.SetDefault("max_crime", def.MaxCrime)
	v.SetDefault("min_healthcare", def.MinHealthcare)

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
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
