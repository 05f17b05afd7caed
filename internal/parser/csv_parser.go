package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	fileio "github.com/peekknuf/rankstat/internal/io"
)

var (
	// ErrEmptyFile is returned when a file has no header row
	ErrEmptyFile = errors.New("empty file")

	// ErrInvalidUTF8 is returned when a file is not valid UTF-8
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

	// ErrInvalidDelimiter is returned for a delimiter other than , ; tab or |
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

const utf8BOM = "\ufeff"

// ParserConfig contains configuration options for loading a CSV file
type ParserConfig struct {
	Delimiter  rune // Field delimiter, 0 means detect
	SampleSize int  // Bytes inspected by delimiter detection
	TrimSpace  bool // Whether to trim leading/trailing whitespace
}

// DefaultParserConfig returns a default configuration for the CSV loader
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Delimiter:  0,
		SampleSize: 64 * 1024, // 64KB
		TrimSpace:  true,
	}
}

// Table is a fully loaded CSV file
type Table struct {
	Path      string
	Delimiter rune
	Headers   []string
	Rows      [][]string
}

// Load reads the whole CSV file at path into memory. Large files are
// memory mapped while they are parsed.
func Load(path string, config ParserConfig, logger zerolog.Logger) (*Table, error) {
	reader, err := fileio.NewMMapReader(path, fileio.DefaultMMapConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer reader.Close()

	table, err := Parse(reader.Bytes(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	table.Path = path

	logger.Debug().
		Str("path", path).
		Str("delimiter", strconv.QuoteRune(table.Delimiter)).
		Int("columns", len(table.Headers)).
		Int("rows", len(table.Rows)).
		Bool("mapped", reader.IsMapped()).
		Msg("loaded csv")

	return table, nil
}

// Parse decodes CSV data with a header row
func Parse(data []byte, config ParserConfig) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if !ValidateUTF8(data) {
		return nil, ErrInvalidUTF8
	}

	delim := config.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(data, config.SampleSize)
	}
	if !IsValidDelimiter(delim) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, delim)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = config.TrimSpace && delim != '\t'

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	table := &Table{Delimiter: delim, Headers: trimAll(headers, config.TrimSpace)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		table.Rows = append(table.Rows, trimAll(record, config.TrimSpace))
	}

	return table, nil
}

func trimAll(record []string, trim bool) []string {
	if !trim {
		return record
	}
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
	return record
}

// Column returns the cells of column i; short rows yield empty cells
func (t *Table) Column(i int) []string {
	col := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			col[r] = row[i]
		}
	}
	return col
}

// Floats returns column i as numbers. Empty or malformed cells become NaN
// and are counted in coerced.
func (t *Table) Floats(i int) (values []float64, coerced int) {
	col := t.Column(i)
	values = make([]float64, len(col))
	for r, cell := range col {
		v, ok := ParseNumber(cell)
		if !ok {
			coerced++
		}
		values[r] = v
	}
	return values, coerced
}

// ParseNumber parses s as a float, returning NaN and false when s is not a
// number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return math.NaN(), false
	}
	return v, true
}

// ParseDelimiter converts a flag or config value into a delimiter rune.
// An empty string or "auto" selects detection.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !IsValidDelimiter(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// IsValidDelimiter checks if a rune is a valid CSV delimiter
func IsValidDelimiter(delim rune) bool {
	return delim == ',' || delim == ';' || delim == '\t' || delim == '|'
}

// DetectDelimiter picks the most frequent candidate delimiter in the first
// five lines of data, ignoring anything inside double quotes. Ties favour
// comma, then semicolon, tab and pipe.
func DetectDelimiter(data []byte, sampleSize int) rune {
	if sampleSize <= 0 || sampleSize > len(data) {
		sampleSize = len(data)
	}

	sample := data[:sampleSize]
	candidates := []rune{',', ';', '\t', '|'}
	counts := make(map[rune]int, len(candidates))

	lines := 0
	inQuotes := false
	for i := 0; i < len(sample) && lines < 5; i++ {
		c := sample[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case c == '\n':
			lines++
		default:
			counts[rune(c)]++
		}
	}

	best := ','
	maxCount := 0
	for _, delim := range candidates {
		if counts[delim] > maxCount {
			maxCount = counts[delim]
			best = delim
		}
	}
	return best
}

// ValidateUTF8 checks if data is valid UTF-8
func ValidateUTF8(data []byte) bool {
	return utf8.Valid(data)
}
