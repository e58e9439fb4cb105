package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nestor/internal/analysis"
	"github.com/KaramelBytes/nestor/internal/utils"
)

var (
	inspOutputPath string
	inspJSON       bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the dataset and summarize its enriched columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		t, err := cache.Get()
		if err != nil {
			return err
		}
		rep := analysis.Profile(t)

		var body []byte
		if inspJSON {
			body, err = utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
		} else {
			body = []byte(rep.Markdown())
		}
		if inspOutputPath != "" {
			if err := utils.SafeWriteFile(inspOutputPath, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			okf(cmd.ErrOrStderr(), "Wrote dataset summary to %s\n", inspOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspOutputPath, "output", "o", "", "optional path to write the summary")
	inspectCmd.Flags().BoolVar(&inspJSON, "json", false, "emit JSON instead of Markdown")
}
