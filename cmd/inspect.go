package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/connectors"
	"github.com/peekknuf/rankstat/internal/profiler"
)

var (
	inspectRecursive bool
	inspectMinSize   int64
	inspectMaxSize   int64
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file or directory]",
	Short: "Show the shape, column types and column sums of CSV files",
	Long: `Show the number of rows and columns of each CSV file, the inferred type
of every column (int, float, bool or str), its empty cells and, for numeric
columns, the sum of its values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options := connectors.DiscoveryOptions{
			Recursive: inspectRecursive,
			MinSize:   inspectMinSize,
			MaxSize:   inspectMaxSize,
		}
		files, err := connectors.Resolve(args[0], "csv", options)
		if err != nil {
			return err
		}

		config, err := parserConfig()
		if err != nil {
			return err
		}

		inspected := 0
		for _, file := range files {
			p := profiler.NewCSVProfiler(file.Path, config, logger)
			if err := p.Profile(); err != nil {
				logger.Warn().Err(err).Str("file", file.Path).Msg("failed to profile file")
				continue
			}
			printInspection(cmd.OutOrStdout(), p, file)
			inspected++
		}

		if inspected == 0 {
			return fmt.Errorf("no file could be inspected")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVarP(&inspectRecursive, "recursive", "r", false,
		"search directories recursively")
	inspectCmd.Flags().Int64Var(&inspectMinSize, "min-size", 0,
		"minimum file size in bytes")
	inspectCmd.Flags().Int64Var(&inspectMaxSize, "max-size", 0,
		"maximum file size in bytes")
}

func printInspection(w io.Writer, p *profiler.CSVProfiler, file connectors.FileMeta) {
	metrics := p.CalculateQuality()

	color.New(color.Bold).Fprintf(w, "%s\n", file.Path)
	fmt.Fprintf(w, "  %s rows x %d columns, %s, %.2f%% empty cells\n",
		humanize.Comma(int64(metrics.TotalRows)),
		metrics.TotalColumns,
		humanize.Bytes(uint64(file.Size)),
		metrics.NullPercentage)

	table := newTable(w, "Column", "Type", "Values", "Empty", "Sum")
	for _, stats := range p.ColumnStats {
		sum := ""
		if stats.Numeric() {
			sum = formatNumber(stats.Sum)
		}
		table.Append([]string{
			stats.Name,
			stats.Type,
			strconv.Itoa(stats.Count),
			strconv.Itoa(stats.NullCount),
			sum,
		})
	}
	table.Render()
	fmt.Fprintln(w)
}
