package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/peekknuf/rankstat/internal/parser"
	"github.com/peekknuf/rankstat/internal/profiler"
	"github.com/peekknuf/rankstat/internal/schema"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"

	// exportSeparator is the field separator of exported CSV files
	exportSeparator = ';'
)

func parserConfig() (parser.ParserConfig, error) {
	config := parser.DefaultParserConfig()
	delim, err := parser.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return config, err
	}
	config.Delimiter = delim
	return config, nil
}

func loadTable(path string) (*parser.Table, error) {
	config, err := parserConfig()
	if err != nil {
		return nil, err
	}
	return parser.Load(path, config, logger)
}

// fieldFor builds the field that locates a column. With a schema name the
// value is a field of that schema, otherwise it is a comma separated list
// of header patterns.
func fieldFor(schemaName, name, value string) (schema.Field, error) {
	if value == "" {
		return schema.Field{}, fmt.Errorf("no column given for %s", name)
	}

	if schemaName != "" {
		s, err := cfg.Schema(schemaName)
		if err != nil {
			return schema.Field{}, err
		}
		fields, err := s.Select(value)
		if err != nil {
			return schema.Field{}, err
		}
		field := fields[0]
		field.Name = name
		field.Optional = false
		return field, nil
	}

	patterns := splitList(value)
	if len(patterns) == 0 {
		return schema.Field{}, fmt.Errorf("no column given for %s", name)
	}
	return schema.Field{Name: name, Patterns: patterns}, nil
}

// resolveColumn locates one field in table and returns its position
func resolveColumn(table *parser.Table, field schema.Field) (int, error) {
	mapping, err := schema.Resolve(table.Headers, []schema.Field{field})
	if err != nil {
		return -1, fmt.Errorf("%s: %w", table.Path, err)
	}
	i, _ := mapping.Index(field.Name)
	logger.Debug().
		Str("field", field.Name).
		Str("header", mapping.Header(field.Name)).
		Msg("resolved column")
	return i, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (table|yaml)", format)
	}
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// formatNumber renders v with two decimals and thousands separators
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return humanize.CommafWithDigits(v, 2)
}

// exportNumber renders v for CSV export, rounded to two decimals
func exportNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(profiler.Round2(v), 'f', -1, 64)
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = exportSeparator
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
