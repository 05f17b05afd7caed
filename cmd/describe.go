package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/connectors"
	"github.com/peekknuf/rankstat/internal/engine"
	"github.com/peekknuf/rankstat/internal/parser"
	"github.com/peekknuf/rankstat/internal/profiler"
	"github.com/peekknuf/rankstat/internal/schema"
)

var (
	describeColumns   []string
	describeSchema    string
	describeRecursive bool
	describeOutput    string
	describeFormat    string
)

var describeCmd = &cobra.Command{
	Use:   "describe [file or directory]",
	Short: "Descriptive statistics of the numeric columns of CSV files",
	Long: `Compute count, mean, median, mode, standard deviation, mean absolute
deviation, range, quartiles and deciles for every numeric column.
Directories are scanned for .csv files which are described in parallel.

Examples:
  rankstat describe results.csv
  rankstat describe results.csv --columns inscrit,votant
  rankstat describe results.csv --schema elections --columns inscrits,exprimes
  rankstat describe /data/ --recursive --workers 4
  rankstat describe results.csv --output summary.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(describeFormat); err != nil {
			return err
		}

		files, err := connectors.Resolve(args[0], "csv", connectors.DiscoveryOptions{Recursive: describeRecursive})
		if err != nil {
			return err
		}

		columns, err := describeFields()
		if err != nil {
			return err
		}
		config, err := parserConfig()
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Describing files..."),
			progressbar.OptionSetWidth(20),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		opts := describeOptions(config, columns, func(string) { _ = bar.Add(1) })

		start := time.Now()
		results, err := engine.DescribeFiles(cmd.Context(), files, opts, logger)
		_ = bar.Finish()
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Error != nil {
				failed++
			}
		}
		logger.Info().
			Int("files", len(results)).
			Int("failed", failed).
			Dur("elapsed", time.Since(start)).
			Msg("describe finished")
		if failed == len(results) {
			return fmt.Errorf("no file could be described")
		}

		if describeOutput != "" {
			if err := exportSummaries(describeOutput, results); err != nil {
				return err
			}
			logger.Info().Str("path", describeOutput).Msg("summary written")
		}

		if describeFormat == formatYAML {
			return writeYAML(cmd.OutOrStdout(), yamlResults(results, files))
		}
		printResults(cmd.OutOrStdout(), results, files)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringSliceVar(&describeColumns, "columns", nil,
		"columns to describe, as header patterns or schema fields (default: all numeric)")
	describeCmd.Flags().StringVar(&describeSchema, "schema", "",
		"resolve --columns as fields of this schema")
	describeCmd.Flags().BoolVar(&describeRecursive, "recursive", false,
		"process directories recursively")
	describeCmd.Flags().StringVar(&describeOutput, "output", "",
		"write the summaries to a ';' separated CSV file")
	describeCmd.Flags().StringVar(&describeFormat, "format", formatTable,
		"output format (table|yaml)")
}

// describeOptions passes the configured worker count through unchanged so
// that 0 lets the engine size the pool.
func describeOptions(config parser.ParserConfig, columns []schema.Field, onFileDone func(string)) engine.Options {
	return engine.Options{
		Workers:    cfg.Workers,
		Parser:     config,
		Columns:    columns,
		OnFileDone: onFileDone,
	}
}

func describeFields() ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(describeColumns))
	for _, column := range describeColumns {
		if describeSchema != "" {
			field, err := fieldFor(describeSchema, column, column)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			continue
		}
		fields = append(fields, schema.Field{Name: column, Patterns: []string{column}})
	}
	return fields, nil
}

type fileReport struct {
	Path           string             `yaml:"path"`
	Size           string             `yaml:"size"`
	Rows           int                `yaml:"rows"`
	NullPercentage float64            `yaml:"null_percentage"`
	Error          string             `yaml:"error,omitempty"`
	Columns        []profiler.Summary `yaml:"columns,omitempty"`
}

func yamlResults(results []engine.FileResult, files []connectors.FileMeta) []fileReport {
	reports := make([]fileReport, len(results))
	for i, r := range results {
		reports[i] = fileReport{
			Path:           r.Path,
			Size:           humanize.Bytes(uint64(files[i].Size)),
			Rows:           r.RowCount,
			NullPercentage: profiler.Round2(r.Quality.NullPercentage),
			Columns:        r.Summaries,
		}
		if r.Error != nil {
			reports[i].Error = r.Error.Error()
		}
	}
	return reports
}

func printResults(w io.Writer, results []engine.FileResult, files []connectors.FileMeta) {
	bold := color.New(color.Bold)
	for i, r := range results {
		bold.Fprintf(w, "%s\n", filepath.Base(r.Path))
		if r.Error != nil {
			fmt.Fprintf(w, "  %s\n\n", color.RedString("failed: %v", r.Error))
			continue
		}
		fmt.Fprintf(w, "  %s rows, %d columns (%d numeric), %s, %.1f%% empty cells, %v\n",
			humanize.Comma(int64(r.RowCount)),
			r.Quality.TotalColumns,
			r.Quality.NumericColumns,
			humanize.Bytes(uint64(files[i].Size)),
			r.Quality.NullPercentage,
			r.ProcessingTime.Round(time.Millisecond))

		if len(r.Summaries) == 0 {
			fmt.Fprint(w, "  no numeric column\n\n")
			continue
		}

		table := newTable(w, "Column", "Count", "Missing", "Mean", "Median", "Mode", "Std",
			"MAD", "Min", "Max", "Range", "Q1", "Q3", "IQR", "D1", "D9", "IDR")
		for _, s := range r.Summaries {
			table.Append(append([]string{s.Column, strconv.Itoa(s.Count), strconv.Itoa(s.Missing)},
				summaryValues(s, formatNumber)...))
		}
		table.Render()
		fmt.Fprintln(w)
	}
}

func summaryValues(s profiler.Summary, format func(float64) string) []string {
	values := []float64{s.Mean, s.Median, s.Mode, s.Std, s.MeanAbsDev, s.Min, s.Max,
		s.Range, s.Q1, s.Q3, s.IQR, s.D1, s.D9, s.IDR}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = format(v)
	}
	return out
}

func exportSummaries(path string, results []engine.FileResult) error {
	header := []string{"file", "column", "count", "missing", "mean", "median", "mode", "std",
		"mean_abs_dev", "min", "max", "range", "q1", "q3", "iqr", "d1", "d9", "idr"}

	var rows [][]string
	for _, r := range results {
		for _, s := range r.Summaries {
			row := []string{r.Path, s.Column, strconv.Itoa(s.Count), strconv.Itoa(s.Missing)}
			rows = append(rows, append(row, summaryValues(s, exportNumber)...))
		}
	}
	return writeCSVFile(path, header, rows)
}
