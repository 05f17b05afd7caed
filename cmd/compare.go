package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/correlation"
	"github.com/peekknuf/rankstat/internal/parser"
	"github.com/peekknuf/rankstat/internal/rank"
)

// significanceLevel is the alpha below which a coefficient is highlighted
const significanceLevel = 0.05

var (
	compareLabel  string
	compareLabelB string
	compareA      string
	compareB      string
	compareSchema string
	comparePairs  bool
	compareFormat string
)

// compareReport is the yaml form of a comparison
type compareReport struct {
	FileA    string              `yaml:"file_a"`
	FileB    string              `yaml:"file_b"`
	RankedA  int                 `yaml:"ranked_a"`
	RankedB  int                 `yaml:"ranked_b"`
	Paired   int                 `yaml:"paired"`
	OnlyA    []string            `yaml:"only_a,omitempty"`
	OnlyB    []string            `yaml:"only_b,omitempty"`
	Result   *correlation.Result `yaml:"correlation,omitempty"`
	Pairs    []rank.Pair         `yaml:"pairs,omitempty"`
	Warnings []string            `yaml:"warnings,omitempty"`
}

var compareCmd = &cobra.Command{
	Use:   "compare FILE [FILE_B]",
	Short: "Correlate the rankings of two numeric columns",
	Long: `Rank the rows of FILE by column --a and the rows of FILE_B (or FILE
again) by column --b, match both rankings by label and report the
Spearman and Kendall rank correlations of the matched ranks.

Columns are given as comma separated header patterns, or as field names
of a configured schema with --schema.

Examples:
  rankstat compare islands.csv --label nom --a "surface km" --b "trait de cote"
  rankstat compare states.csv --schema states --label state --a pop2007 --b pop2025
  rankstat compare 2007.csv 2025.csv --label etat --a pop --b pop --pairs`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(compareFormat); err != nil {
			return err
		}

		obsA, obsB, err := compareObservations(args)
		if err != nil {
			return err
		}

		c, err := rank.Compare(obsA, obsB)
		if c == nil {
			return err
		}

		report := newCompareReport(args, c, err)
		if compareFormat == formatYAML {
			if werr := writeYAML(cmd.OutOrStdout(), report); werr != nil {
				return werr
			}
		} else {
			printComparison(cmd.OutOrStdout(), report)
		}

		if err != nil && !errors.Is(err, correlation.ErrTooFewPairs) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareLabel, "label", "",
		"label column shared by both rankings")
	compareCmd.Flags().StringVar(&compareLabelB, "label-b", "",
		"label column of the second file (default: --label)")
	compareCmd.Flags().StringVar(&compareA, "a", "",
		"value column of the first ranking")
	compareCmd.Flags().StringVar(&compareB, "b", "",
		"value column of the second ranking")
	compareCmd.Flags().StringVar(&compareSchema, "schema", "",
		"resolve columns as fields of this schema")
	compareCmd.Flags().BoolVar(&comparePairs, "pairs", false,
		"print the matched rank pairs")
	compareCmd.Flags().StringVar(&compareFormat, "format", formatTable,
		"output format (table|yaml)")

	compareCmd.MarkFlagRequired("label")
	compareCmd.MarkFlagRequired("a")
	compareCmd.MarkFlagRequired("b")
}

// compareObservations loads the labelled values of both rankings
func compareObservations(args []string) ([]rank.Observation, []rank.Observation, error) {
	tableA, err := loadTable(args[0])
	if err != nil {
		return nil, nil, err
	}
	tableB := tableA
	if len(args) == 2 {
		if tableB, err = loadTable(args[1]); err != nil {
			return nil, nil, err
		}
	}

	labelB := compareLabelB
	if labelB == "" {
		labelB = compareLabel
	}

	obsA, err := observations(tableA, compareLabel, compareA)
	if err != nil {
		return nil, nil, err
	}
	obsB, err := observations(tableB, labelB, compareB)
	if err != nil {
		return nil, nil, err
	}
	return obsA, obsB, nil
}

func observations(table *parser.Table, label, value string) ([]rank.Observation, error) {
	labelField, err := fieldFor(compareSchema, "label", label)
	if err != nil {
		return nil, err
	}
	valueField, err := fieldFor(compareSchema, "value", value)
	if err != nil {
		return nil, err
	}

	labelCol, err := resolveColumn(table, labelField)
	if err != nil {
		return nil, err
	}
	valueCol, err := resolveColumn(table, valueField)
	if err != nil {
		return nil, err
	}

	values, coerced := table.Floats(valueCol)
	if coerced > 0 {
		logger.Info().
			Str("file", table.Path).
			Str("column", table.Headers[valueCol]).
			Int("rows", coerced).
			Msg("rows without a numeric value are left out of the ranking")
	}
	return rank.Observations(values, table.Column(labelCol))
}

func newCompareReport(args []string, c *rank.Comparison, err error) compareReport {
	onlyA, onlyB := rank.Unmatched(c.RankedA, c.RankedB)
	if len(onlyA)+len(onlyB) > 0 {
		logger.Debug().Strs("only_a", onlyA).Strs("only_b", onlyB).Msg("unmatched labels")
	}

	report := compareReport{
		FileA:   args[0],
		FileB:   args[len(args)-1],
		RankedA: len(c.RankedA),
		RankedB: len(c.RankedB),
		Paired:  len(c.Pairs),
		OnlyA:   onlyA,
		OnlyB:   onlyB,
	}
	if err != nil {
		report.Warnings = append(report.Warnings, err.Error())
	} else {
		result := c.Correlation
		report.Result = &result
	}
	if comparePairs {
		report.Pairs = c.Pairs
	}
	return report
}

func printComparison(w io.Writer, report compareReport) {
	fmt.Fprintf(w, "Ranked: %d in %s, %d in %s\n", report.RankedA, report.FileA, report.RankedB, report.FileB)
	fmt.Fprintf(w, "Paired: %d (unmatched: %d, %d)\n\n", report.Paired, len(report.OnlyA), len(report.OnlyB))

	for _, warning := range report.Warnings {
		fmt.Fprintln(w, color.YellowString("warning: %s", warning))
	}

	if report.Result != nil {
		table := newTable(w, "Method", "Coefficient", "p-value", "Significant")
		table.Append(coefficientRow("Spearman rho", report.Result.Spearman))
		table.Append(coefficientRow("Kendall tau", report.Result.Kendall))
		table.Render()
	}

	if len(report.Pairs) > 0 {
		fmt.Fprintln(w)
		table := newTable(w, "Rank A", "Rank B", "Label")
		for _, p := range report.Pairs {
			table.Append([]string{strconv.Itoa(p.RankA), strconv.Itoa(p.RankB), p.Label})
		}
		table.Render()
	}
}

func coefficientRow(name string, c correlation.Coefficient) []string {
	significant := color.RedString("no")
	if c.Significant(significanceLevel) {
		significant = color.GreenString("yes")
	}
	return []string{
		name,
		strconv.FormatFloat(c.Value, 'f', 4, 64),
		strconv.FormatFloat(c.PValue, 'g', 4, 64),
		significant,
	}
}
