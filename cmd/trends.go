package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nestor/internal/recommend"
	"github.com/KaramelBytes/nestor/internal/report"
	"github.com/KaramelBytes/nestor/internal/utils"
)

var (
	trFlags    queryFlags
	trRegions  []string
	trMarkdown bool
	trJSON     bool
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show home-price history by date for selected regions",
	Long: `Print the date × region HomePrice matrix. Regions come from --regions, or
else from the top 5 of the query given by the filter flags. History is taken
from the full dataset, not just the rows that pass the filter.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		t, err := cache.Get()
		if err != nil {
			return err
		}

		var m recommend.TrendMatrix
		if len(trRegions) > 0 {
			m = recommend.PriceTrends(t, trRegions)
		} else {
			q, err := trFlags.query(cmd)
			if err != nil {
				return err
			}
			res, err := recommend.Filter(t, q)
			if err != nil {
				return err
			}
			if res.Warning != "" {
				warnf(cmd.ErrOrStderr(), "%s\n", res.Warning)
			}
			m = res.Trends()
		}

		w := cmd.OutOrStdout()
		if m.Empty() {
			warnf(cmd.ErrOrStderr(), "No price history to show\n")
			return nil
		}
		switch {
		case trJSON:
			b, err := utils.PrettyJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		case trMarkdown:
			fmt.Fprint(w, report.TrendsMarkdown(m))
		default:
			report.WriteTrendsTable(w, m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trFlags.register(trendsCmd)
	trendsCmd.Flags().StringSliceVarP(&trRegions, "regions", "r", nil, "comma-separated region names (default: top 5 of the query)")
	trendsCmd.Flags().BoolVar(&trMarkdown, "markdown", false, "print the matrix as a Markdown table")
	trendsCmd.Flags().BoolVar(&trJSON, "json", false, "print the matrix as JSON")
	trendsCmd.MarkFlagsMutuallyExclusive("json", "markdown")
}
