package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/sampling"
)

const defaultPopulation = "Pour=852,Contre=911,Sans opinion=422"

var (
	samplingPopulation string
	samplingZ          float64
	samplingFormat     string
)

var samplingCmd = &cobra.Command{
	Use:   "sampling FILE",
	Short: "Fluctuation and confidence intervals of sampled opinions",
	Long: `Read a table of sample counts, one column per answer and one row per
sample. Print the rounded mean of every column, the resulting frequencies,
the fluctuation interval of each population frequency and the confidence
interval of each frequency of the first sample.

Examples:
  rankstat sampling samples.csv
  rankstat sampling samples.csv --population "Yes=1200,No=800" --z 2.576`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(samplingFormat); err != nil {
			return err
		}

		population, err := sampling.ParsePopulation(samplingPopulation)
		if err != nil {
			return err
		}
		table, err := loadTable(args[0])
		if err != nil {
			return err
		}

		columns := make([][]float64, len(table.Headers))
		for i := range table.Headers {
			values, coerced := table.Floats(i)
			if coerced > 0 {
				logger.Warn().
					Str("column", table.Headers[i]).
					Int("rows", coerced).
					Msg("non-numeric sample counts ignored")
			}
			columns[i] = values
		}

		analysis, err := sampling.Analyze(table.Headers, columns, population, samplingZ)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		if samplingFormat == formatYAML {
			return writeYAML(cmd.OutOrStdout(), analysis)
		}
		printAnalysis(cmd.OutOrStdout(), analysis)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(samplingCmd)

	samplingCmd.Flags().StringVar(&samplingPopulation, "population", defaultPopulation,
		"population counts as name=count pairs")
	samplingCmd.Flags().Float64Var(&samplingZ, "z", sampling.DefaultZ,
		"normal quantile of the interval level")
	samplingCmd.Flags().StringVar(&samplingFormat, "format", formatTable,
		"output format (table|yaml)")
}

func printAnalysis(w io.Writer, a *sampling.Analysis) {
	table := newTable(w, "Answer", "Mean", "Frequency")
	for i, m := range a.Means {
		table.Append([]string{m.Name, formatNumber(m.Count), formatNumber(a.Frequencies[i].Count)})
	}
	table.SetFooter([]string{"n", formatNumber(a.N), ""})
	table.Render()

	fmt.Fprintln(w, "\nFluctuation intervals of the population frequencies")
	printIntervals(w, a.Fluctuation)

	fmt.Fprintln(w, "\nConfidence intervals of the first sample")
	printIntervals(w, a.FirstSample)
}

func printIntervals(w io.Writer, intervals []sampling.Interval) {
	table := newTable(w, "Answer", "Frequency", "Low", "High")
	for _, i := range intervals {
		table.Append([]string{i.Name, formatNumber(i.Frequency), formatNumber(i.Low), formatNumber(i.High)})
	}
	table.Render()
}
