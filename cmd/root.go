package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/nestor/internal/config"
	"github.com/KaramelBytes/nestor/internal/dataset"
	"github.com/KaramelBytes/nestor/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	dataPath  string
	delimiter string
	sheetName string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "nestor",
	Short: "Nestor: rank regions by desirability from a housing dataset",
	Long: `Nestor loads a housing/economic dataset, derives normalized crime and school
metrics, filters regions by one preference mode (budget, bedrooms, crime rate
or healthcare access) and ranks what matches by desirability score.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.nestor/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset file: .csv, .tsv or .xlsx (overrides config)")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet-name", "", "XLSX: sheet to read (default first sheet)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("data") && dataPath != "" {
		cfg.DataPath = dataPath
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.New(level, cfg.LogFormat, os.Stderr)
}

// loadOptions maps the reader flags onto dataset options.
func loadOptions() (dataset.Options, error) {
	opt := dataset.Options{Sheet: sheetName}
	switch strings.ToLower(strings.TrimSpace(delimiter)) {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	return opt, nil
}

// openCache returns a cache over the configured dataset path.
func openCache() (*dataset.Cache, error) {
	if cfg == nil || cfg.DataPath == "" {
		return nil, fmt.Errorf("no dataset configured: pass --data or run 'nestor config set data_path <file>'")
	}
	opt, err := loadOptions()
	if err != nil {
		return nil, err
	}
	return dataset.NewCache(cfg.DataPath, opt), nil
}
