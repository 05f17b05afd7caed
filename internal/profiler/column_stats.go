package profiler

import (
	"strconv"
	"strings"
)

// Simplified column types
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "str"
)

// ColumnStats holds per-column counts gathered in a single pass
type ColumnStats struct {
	Name      string
	Type      string
	Count     int // non-empty cells
	NullCount int
	Sum       float64 // only meaningful for numeric types

	seenInt    bool
	seenFloat  bool
	seenBool   bool
	seenString bool
}

// NewColumnStats creates an empty tracker for one column
func NewColumnStats(name string) *ColumnStats {
	return &ColumnStats{Name: name}
}

// Update folds one raw cell into the column statistics
func (s *ColumnStats) Update(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		s.NullCount++
		return
	}
	s.Count++

	if s.seenString {
		return
	}

	switch {
	case len(value) < 20 && fastIsInt(value):
		s.seenInt = true
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			s.Sum += v
		}
	case len(value) < 25 && fastIsFloat(value):
		s.seenFloat = true
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			s.Sum += v
		}
	case isBool(value):
		s.seenBool = true
	default:
		s.seenString = true
	}
}

// Finalize resolves the column type. Integers mixed with empty cells or
// decimals become float, anything mixed with text becomes str.
func (s *ColumnStats) Finalize() {
	switch {
	case s.seenString:
		s.Type = TypeString
	case s.seenBool && (s.seenInt || s.seenFloat):
		s.Type = TypeString
	case s.seenBool:
		s.Type = TypeBool
	case s.seenFloat:
		s.Type = TypeFloat
	case s.seenInt && s.NullCount > 0:
		s.Type = TypeFloat
	case s.seenInt:
		s.Type = TypeInt
	default:
		// all empty
		s.Type = TypeFloat
	}
}

// Numeric reports whether the column holds only numbers
func (s *ColumnStats) Numeric() bool {
	return s.Type == TypeInt || s.Type == TypeFloat
}

// fastIsInt quickly checks if a string is likely an integer
func fastIsInt(str string) bool {
	if len(str) == 0 {
		return false
	}

	i := 0
	if str[0] == '-' || str[0] == '+' {
		if len(str) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(str); i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// fastIsFloat quickly checks if a string is likely a float
func fastIsFloat(str string) bool {
	if len(str) == 0 {
		return false
	}

	hasDigit := false
	hasDot := false
	hasExp := false
	i := 0

	if str[0] == '-' || str[0] == '+' {
		if len(str) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(str); i++ {
		c := str[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '.':
			if hasDot || hasExp {
				return false
			}
			hasDot = true
		case c == 'e' || c == 'E':
			if hasExp || !hasDigit || i == len(str)-1 {
				return false
			}
			hasExp = true
		case (c == '-' || c == '+') && hasExp && (str[i-1] == 'e' || str[i-1] == 'E'):
			if i == len(str)-1 {
				return false
			}
		default:
			return false
		}
	}
	return hasDigit && (hasDot || hasExp)
}

func isBool(str string) bool {
	switch strings.ToLower(str) {
	case "true", "false":
		return true
	}
	return false
}
