package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/peekknuf/rankstat/internal/profiler"
)

const defaultEdges = "0,10,25,50,100,2500,5000,10000,inf"

var (
	binValue  string
	binSchema string
	binEdges  string
	binFormat string
)

var binCmd = &cobra.Command{
	Use:   "bin FILE",
	Short: "Count the values of a numeric column per interval",
	Long: `Count the values of a numeric column in each interval (low, high] given
by --edges. The first interval also includes its lower edge and the last
edge may be inf.

Examples:
  rankstat bin islands.csv --value "surface km"
  rankstat bin islands.csv --schema islands --value surface --edges 0,1,10,100,inf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(binFormat); err != nil {
			return err
		}

		edges, err := profiler.ParseEdges(binEdges)
		if err != nil {
			return err
		}
		values, err := columnValues(args[0], binSchema, binValue)
		if err != nil {
			return err
		}
		bins, err := profiler.Histogram(values, edges)
		if err != nil {
			return err
		}

		if binFormat == formatYAML {
			return writeYAML(cmd.OutOrStdout(), bins)
		}
		table := newTable(cmd.OutOrStdout(), "Interval", "Count")
		for _, b := range bins {
			table.Append([]string{b.Label, strconv.Itoa(b.Count)})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(binCmd)

	binCmd.Flags().StringVar(&binValue, "value", "",
		"value column, as header patterns or a schema field")
	binCmd.Flags().StringVar(&binSchema, "schema", "",
		"resolve --value as a field of this schema")
	binCmd.Flags().StringVar(&binEdges, "edges", defaultEdges,
		"comma separated interval edges")
	binCmd.Flags().StringVar(&binFormat, "format", formatTable,
		"output format (table|yaml)")

	binCmd.MarkFlagRequired("value")
}
