package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nestor/internal/dashboard"
	"github.com/KaramelBytes/nestor/internal/report"
	"github.com/KaramelBytes/nestor/internal/utils"
)

var (
	recFlags    queryFlags
	recCSV      string
	recXLSX     string
	recCharts   string
	recJSON     bool
	recMarkdown bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Filter and rank regions for one preference mode",
	Long: `Run one query against the dataset: filter by the selected mode and the
minimum school rating, rank matches by DesirabilityScore, and print the top
pick and the ranked table. Optional flags export the matches as CSV or XLSX
and render the top-regions and price-trend charts as PNG.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := recFlags.query(cmd)
		if err != nil {
			return err
		}
		if debug {
			pp.Fprintln(cmd.ErrOrStderr(), q)
		}
		cache, err := openCache()
		if err != nil {
			return err
		}
		out, err := dashboard.Run(cache, q)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		switch {
		case recJSON:
			b, err := utils.PrettyJSON(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		case recMarkdown:
			fmt.Fprint(w, report.Markdown(out.Result))
		default:
			printSummary(w, out)
		}

		if recCSV != "" {
			if out.Download == nil {
				warnf(cmd.ErrOrStderr(), "No matching results; CSV not written\n")
			} else {
				path := utils.OutputPath(recCSV, out.Download.Filename)
				if err := utils.SafeWriteFile(path, out.Download.Body); err != nil {
					return err
				}
				okf(cmd.ErrOrStderr(), "Wrote %d results to %s\n", out.Count, path)
			}
		}
		if recXLSX != "" {
			if err := writeWith(recXLSX, "nestor_recommendations.xlsx", func(b *bytes.Buffer) error {
				return report.WriteXLSX(b, out.Result)
			}); err != nil {
				return err
			}
		}
		if recCharts != "" {
			if err := writeWith(filepath.Join(recCharts, "top_regions.png"), "", func(b *bytes.Buffer) error {
				return report.WriteBarChart(b, out.Bars)
			}); err != nil {
				return err
			}
			if err := writeWith(filepath.Join(recCharts, "price_trends.png"), "", func(b *bytes.Buffer) error {
				return report.WriteTrendChart(b, out.Trends)
			}); err != nil {
				return err
			}
		}
		return nil
	},
}

func printSummary(w io.Writer, out *dashboard.Outputs) {
	fmt.Fprintf(w, "%s\n", report.Title)
	fmt.Fprintf(w, "Filter: %s\n\n", out.ModeLabel)
	if out.Warning != "" {
		warnf(w, "%s\n", out.Warning)
	}
	if out.TopPick != nil {
		okf(w, "%s\n", out.TopPick.Line)
	}
	fmt.Fprintf(w, "%s\n", out.Headline)
	if len(out.Columns) > 0 && out.Count > 0 {
		report.WriteTable(w, out.Result)
	}
	if len(out.Bars) > 0 {
		fmt.Fprintln(w, "\nTop Region(s) by Desirability Score")
		for i, b := range out.Bars {
			fmt.Fprintf(w, "  %d. %-24s %.3f\n", i+1, b.Region, b.Score)
		}
	}
}

// writeWith renders into memory and writes only on success, so a failed
// render never leaves a partial file behind.
func writeWith(path, name string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, report.ErrNothingToExport) {
			warnf(os.Stderr, "Nothing to write for %s\n", path)
			return nil
		}
		return err
	}
	if name != "" {
		path = utils.OutputPath(path, name)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	okf(os.Stderr, "Wrote %s\n", path)
	return nil
}

func okf(w io.Writer, format string, a ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format, a...)
}

func warnf(w io.Writer, format string, a ...any) {
	color.New(color.FgYellow).Fprintf(w, "⚠ "+format, a...)
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recFlags.register(recommendCmd)
	recommendCmd.Flags().StringVar(&recCSV, "csv", "", "write matching records as CSV to this file or directory ("+report.DownloadFilename+")")
	recommendCmd.Flags().StringVar(&recXLSX, "xlsx", "", "write ranked results and price trends as an XLSX workbook")
	recommendCmd.Flags().StringVar(&recCharts, "charts", "", "directory for top_regions.png and price_trends.png")
	recommendCmd.Flags().BoolVar(&recJSON, "json", false, "print the full result as JSON")
	recommendCmd.Flags().BoolVar(&recMarkdown, "markdown", false, "print the result as Markdown")
	recommendCmd.MarkFlagsMutuallyExclusive("json", "markdown")
}
