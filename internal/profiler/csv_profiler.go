package profiler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/peekknuf/rankstat/internal/parser"
)

// CSVProfiler loads one CSV file and derives column types and summaries
type CSVProfiler struct {
	FilePath    string
	Config      parser.ParserConfig
	Table       *parser.Table
	ColumnStats []*ColumnStats
	RowCount    int

	logger zerolog.Logger
}

// NewCSVProfiler creates a profiler for filePath
func NewCSVProfiler(filePath string, config parser.ParserConfig, logger zerolog.Logger) *CSVProfiler {
	return &CSVProfiler{
		FilePath: filePath,
		Config:   config,
		logger:   logger.With().Str("file", filePath).Logger(),
	}
}

// Profile reads the file and infers the type of every column
func (p *CSVProfiler) Profile() error {
	start := time.Now()

	table, err := parser.Load(p.FilePath, p.Config, p.logger)
	if err != nil {
		return err
	}
	p.Table = table
	p.RowCount = len(table.Rows)

	p.ColumnStats = make([]*ColumnStats, len(table.Headers))
	for i, header := range table.Headers {
		p.ColumnStats[i] = NewColumnStats(header)
	}

	for _, record := range table.Rows {
		for i, stats := range p.ColumnStats {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			stats.Update(value)
		}
	}

	for _, stats := range p.ColumnStats {
		stats.Finalize()
	}

	p.logger.Debug().
		Int("rows", p.RowCount).
		Dur("elapsed", time.Since(start)).
		Msg("profiled columns")

	return nil
}

// NumericColumns returns the positions of int and float columns
func (p *CSVProfiler) NumericColumns() []int {
	var cols []int
	for i, stats := range p.ColumnStats {
		if stats.Numeric() {
			cols = append(cols, i)
		}
	}
	return cols
}

// Describe summarises the given columns. Cells that are not numbers are
// treated as missing.
func (p *CSVProfiler) Describe(columns []int) ([]Summary, error) {
	if p.Table == nil {
		return nil, fmt.Errorf("profile %s before describing it", p.FilePath)
	}

	summaries := make([]Summary, 0, len(columns))
	for _, i := range columns {
		if i < 0 || i >= len(p.Table.Headers) {
			return nil, fmt.Errorf("column %d out of range in %s", i, p.FilePath)
		}

		values, coerced := p.Table.Floats(i)
		if coerced > 0 {
			p.logger.Debug().
				Str("column", p.Table.Headers[i]).
				Int("coerced", coerced).
				Msg("non-numeric cells treated as missing")
		}
		summaries = append(summaries, Summarize(p.Table.Headers[i], values))
	}
	return summaries, nil
}
