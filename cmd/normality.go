package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/normality"
)

var (
	normalityValue  string
	normalitySchema string
	normalityAlpha  float64
	normalityFormat string
)

type normalityReport struct {
	File   string           `yaml:"file"`
	Column string           `yaml:"column"`
	Result normality.Result `yaml:",inline"`
	Normal bool             `yaml:"normal"`
}

var normalityCmd = &cobra.Command{
	Use:   "normality FILE...",
	Short: "Shapiro-Wilk normality test of a numeric column",
	Long: `Run the Shapiro-Wilk test on one numeric column of each file and report
W, the p-value and whether normality is kept at level --alpha. Without
--value the first column is tested.

Examples:
  rankstat normality test1.csv test2.csv
  rankstat normality heights.csv --value taille --alpha 0.01`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(normalityFormat); err != nil {
			return err
		}
		if normalityAlpha <= 0 || normalityAlpha >= 1 {
			return fmt.Errorf("alpha must be in (0, 1), got %g", normalityAlpha)
		}

		reports := make([]normalityReport, 0, len(args))
		for _, path := range args {
			report, err := testNormality(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug().
				Str("file", path).
				Int("n", report.Result.N).
				Float64("w", report.Result.W).
				Float64("p", report.Result.PValue).
				Msg("normality tested")
			reports = append(reports, report)
		}

		if normalityFormat == formatYAML {
			return writeYAML(cmd.OutOrStdout(), reports)
		}
		table := newTable(cmd.OutOrStdout(), "File", "Column", "N", "W", "p-value", "Verdict")
		for _, r := range reports {
			verdict := color.RedString("not normal")
			if r.Normal {
				verdict = color.GreenString("normal")
			}
			table.Append([]string{
				filepath.Base(r.File),
				r.Column,
				strconv.Itoa(r.Result.N),
				strconv.FormatFloat(r.Result.W, 'f', 3, 64),
				strconv.FormatFloat(r.Result.PValue, 'g', 3, 64),
				verdict,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalityCmd)

	normalityCmd.Flags().StringVar(&normalityValue, "value", "",
		"column to test, as header patterns or a schema field (default: first column)")
	normalityCmd.Flags().StringVar(&normalitySchema, "schema", "",
		"resolve --value as a field of this schema")
	normalityCmd.Flags().Float64Var(&normalityAlpha, "alpha", normality.DefaultAlpha,
		"significance level")
	normalityCmd.Flags().StringVar(&normalityFormat, "format", formatTable,
		"output format (table|yaml)")
}

func testNormality(path string) (normalityReport, error) {
	table, err := loadTable(path)
	if err != nil {
		return normalityReport{}, err
	}

	col := 0
	if normalityValue != "" {
		field, err := fieldFor(normalitySchema, "value", normalityValue)
		if err != nil {
			return normalityReport{}, err
		}
		if col, err = resolveColumn(table, field); err != nil {
			return normalityReport{}, err
		}
	}
	if col >= len(table.Headers) {
		return normalityReport{}, fmt.Errorf("no column to test")
	}

	values, coerced := table.Floats(col)
	if coerced > 0 {
		logger.Info().
			Str("column", table.Headers[col]).
			Int("rows", coerced).
			Msg("non-numeric cells ignored")
	}

	result, err := normality.ShapiroWilk(values)
	if err != nil {
		return normalityReport{}, err
	}
	return normalityReport{
		File:   path,
		Column: table.Headers[col],
		Result: result,
		Normal: result.Normal(normalityAlpha),
	}, nil
}
