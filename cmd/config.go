package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/nestor/internal/config"
	"github.com/KaramelBytes/nestor/internal/recommend"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Nestor configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "data_path: %s\n", cfg.DataPath)
		fmt.Fprintf(w, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(w, "default_mode: %s\n", cfg.DefaultMode)
		fmt.Fprintf(w, "min_price: %.0f\n", cfg.MinPrice)
		fmt.Fprintf(w, "max_price: %.0f\n", cfg.MaxPrice)
		fmt.Fprintf(w, "school_rating: %.1f\n", cfg.SchoolRating)
		fmt.Fprintf(w, "bedrooms: %d\n", cfg.Bedrooms)
		fmt.Fprintf(w, "max_crime: %.1f\n", cfg.MaxCrime)
		fmt.Fprintf(w, "min_healthcare: %.1f\n", cfg.MinHealthcare)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "output_dir":
			cfg.OutputDir = val
		case "listen_addr":
			cfg.ListenAddr = val
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch val {
			case "console", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		case "default_mode":
			m, err := recommend.ParseMode(val)
			if err != nil {
				return err
			}
			cfg.DefaultMode = string(m)
		case "bedrooms":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for bedrooms: %w", err)
			}
			cfg.Bedrooms = i
		case "min_price", "max_price", "school_rating", "max_crime", "min_healthcare":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			switch key {
			case "min_price":
				cfg.MinPrice = f
			case "max_price":
				cfg.MaxPrice = f
			case "school_rating":
				cfg.SchoolRating = f
			case "max_crime":
				cfg.MaxCrime = f
			case "min_healthcare":
				cfg.MinHealthcare = f
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
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
