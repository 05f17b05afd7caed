// Package schema maps canonical field names onto the headers of a CSV
// file. Each field lists one or more header patterns; a pattern is a set
// of whitespace separated terms that must all occur in the header. Accents
// and case are ignored, so "etat" matches "État" and "ÉTAT".
package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrColumnNotFound is returned when a required field matches no header
var ErrColumnNotFound = errors.New("column not found")

// Field describes one canonical column and how to find it
type Field struct {
	Name     string   `mapstructure:"name" yaml:"name" validate:"required"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns" validate:"required,gt=0,dive,required"`
	Optional bool     `mapstructure:"optional" yaml:"optional"`
}

// Mapping is the result of resolving fields against a header row
type Mapping struct {
	headers []string
	index   map[string]int
}

// Index returns the column position of a resolved field
func (m Mapping) Index(field string) (int, bool) {
	i, ok := m.index[field]
	return i, ok
}

// Header returns the original header text of a resolved field
func (m Mapping) Header(field string) string {
	if i, ok := m.index[field]; ok {
		return m.headers[i]
	}
	return ""
}

// Has reports whether the field was resolved
func (m Mapping) Has(field string) bool {
	_, ok := m.index[field]
	return ok
}

// Resolve locates every field in headers. All required fields that cannot
// be found are reported together.
func Resolve(headers []string, fields []Field) (Mapping, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = Normalize(h)
	}

	m := Mapping{headers: headers, index: make(map[string]int, len(fields))}
	var missing []string

	for _, f := range fields {
		i := find(normalized, f.Patterns)
		if i < 0 {
			if !f.Optional {
				missing = append(missing, fmt.Sprintf("%s (patterns %q)", f.Name, f.Patterns))
			}
			continue
		}
		m.index[f.Name] = i
	}

	if len(missing) > 0 {
		return m, fmt.Errorf("%w: %s; available headers: %q",
			ErrColumnNotFound, strings.Join(missing, ", "), headers)
	}
	return m, nil
}

// Match reports whether header satisfies pattern
func Match(header, pattern string) bool {
	return matchTerms(Normalize(header), strings.Fields(Normalize(pattern)))
}

func find(normalized []string, patterns []string) int {
	for _, p := range patterns {
		terms := strings.Fields(Normalize(p))
		if len(terms) == 0 {
			continue
		}
		for i, h := range normalized {
			if matchTerms(h, terms) {
				return i
			}
		}
	}
	return -1
}

func matchTerms(header string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, t := range terms {
		if !strings.Contains(header, t) {
			return false
		}
	}
	return true
}

// Normalize strips accents, folds case and trims s
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.TrimSpace(out)
}
