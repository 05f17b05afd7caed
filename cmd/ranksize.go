package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/rank"
)

var (
	rankSizeValue  string
	rankSizeSchema string
	rankSizeExtra  []float64
	rankSizeOutput string
	rankSizeFormat string
)

var rankSizeCmd = &cobra.Command{
	Use:   "ranksize FILE",
	Short: "Rank-size table of a numeric column",
	Long: `Sort the values of one column in decreasing order and list each with
its rank, ln(rank) and ln(value). Extra values, e.g. continents missing from
an island index, can be added with --extra.

Examples:
  rankstat ranksize islands.csv --value "surface km" --extra 85545323,37856841,7768030,7605049
  rankstat ranksize islands.csv --schema islands --value surface --output ranksize.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(rankSizeFormat); err != nil {
			return err
		}

		values, err := columnValues(args[0], rankSizeSchema, rankSizeValue)
		if err != nil {
			return err
		}
		points := rank.RankSize(append(values, rankSizeExtra...))
		if len(points) == 0 {
			return fmt.Errorf("no numeric value in %s", args[0])
		}

		if rankSizeOutput != "" {
			if err := exportRankSize(rankSizeOutput, points); err != nil {
				return err
			}
			logger.Info().Str("path", rankSizeOutput).Int("points", len(points)).Msg("rank-size table written")
		}

		if rankSizeFormat == formatYAML {
			return writeYAML(cmd.OutOrStdout(), points)
		}
		table := newTable(cmd.OutOrStdout(), "Rank", "Value", "ln(rank)", "ln(value)")
		for _, p := range points {
			table.Append([]string{
				strconv.Itoa(p.Rank),
				formatNumber(p.Value),
				strconv.FormatFloat(p.LogRank, 'f', 4, 64),
				strconv.FormatFloat(p.LogValue, 'f', 4, 64),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankSizeCmd)

	rankSizeCmd.Flags().StringVar(&rankSizeValue, "value", "",
		"value column, as header patterns or a schema field")
	rankSizeCmd.Flags().StringVar(&rankSizeSchema, "schema", "",
		"resolve --value as a field of this schema")
	rankSizeCmd.Flags().Float64SliceVar(&rankSizeExtra, "extra", nil,
		"extra values added to the column")
	rankSizeCmd.Flags().StringVar(&rankSizeOutput, "output", "",
		"write the table to a ';' separated CSV file")
	rankSizeCmd.Flags().StringVar(&rankSizeFormat, "format", formatTable,
		"output format (table|yaml)")

	rankSizeCmd.MarkFlagRequired("value")
}

// columnValues loads path and returns the numeric values of one column
func columnValues(path, schemaName, value string) ([]float64, error) {
	table, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	field, err := fieldFor(schemaName, "value", value)
	if err != nil {
		return nil, err
	}
	col, err := resolveColumn(table, field)
	if err != nil {
		return nil, err
	}

	values, coerced := table.Floats(col)
	if coerced > 0 {
		logger.Info().
			Str("column", table.Headers[col]).
			Int("rows", coerced).
			Msg("non-numeric cells ignored")
	}
	return values, nil
}

func exportRankSize(path string, points []rank.SizePoint) error {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			strconv.Itoa(p.Rank),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
			exportNumber(p.LogRank),
			exportNumber(p.LogValue),
		}
	}
	return writeCSVFile(path, []string{"rank", "value", "log_rank", "log_value"}, rows)
}
